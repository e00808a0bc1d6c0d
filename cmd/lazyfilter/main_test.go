package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/boltdb/bolt"
	"go.llib.dev/frameless/pkg/cli"
	"go.llib.dev/testcase"
	"go.llib.dev/testcase/assert"
	"go.llib.dev/testcase/let"
)

const input = `alpha
beta
gamma
delta
epsilon
zeta
`

func TestLinesCommand(t *testing.T) {
	s := testcase.NewSpec(t)

	var (
		args = let.Var(s, func(t *testcase.T) []string { return nil })
		body = let.VarOf(s, input)
		mode = let.VarOf(s, ModeSeq)
		rec  = let.Var(s, func(t *testcase.T) *cli.ResponseRecorder { return &cli.ResponseRecorder{} })
	)
	act := func(t *testcase.T) {
		r := &cli.Request{
			Args: append([]string{"lines", "-mode", mode.Get(t)}, args.Get(t)...),
			Body: strings.NewReader(body.Get(t)),
		}
		cli.ServeCLI(Mux(), rec.Get(t), r)
	}
	output := func(t *testcase.T) []string {
		return strings.Fields(rec.Get(t).Out.String())
	}

	behaviour := func(s *testcase.Spec) {
		s.Then("without filters every line is printed", func(t *testcase.T) {
			act(t)
			assert.Equal(t, 0, rec.Get(t).Code)
			assert.Equal(t, strings.Fields(input), output(t))
		})

		s.When("lines are filtered by text", func(s *testcase.Spec) {
			args.Let(s, func(t *testcase.T) []string { return []string{"-contains", "ta"} })

			s.Then("only the matching lines are printed in input order", func(t *testcase.T) {
				act(t)
				assert.Equal(t, []string{"beta", "delta", "zeta"}, output(t))
			})

			s.And("the filter is inverted", func(s *testcase.Spec) {
				args.Let(s, func(t *testcase.T) []string { return []string{"-contains", "ta", "-v"} })

				s.Then("the non matching lines are printed", func(t *testcase.T) {
					act(t)
					assert.Equal(t, []string{"alpha", "gamma", "epsilon"}, output(t))
				})
			})
		})

		s.When("lines are filtered by a pattern", func(s *testcase.Spec) {
			args.Let(s, func(t *testcase.T) []string { return []string{"-match", "^[a-e]", "-contains", "l"} })

			s.Then("both filters have to match", func(t *testcase.T) {
				act(t)
				assert.Equal(t, []string{"alpha", "delta", "epsilon"}, output(t))
			})
		})

		s.When("line numbers are requested", func(s *testcase.Spec) {
			args.Let(s, func(t *testcase.T) []string { return []string{"-contains", "ta", "-n"} })

			s.Then("the original line numbers are kept", func(t *testcase.T) {
				act(t)
				assert.Equal(t, []string{"2:beta", "4:delta", "6:zeta"}, output(t))
			})
		})

		s.When("matching lines are skipped and limited", func(s *testcase.Spec) {
			args.Let(s, func(t *testcase.T) []string { return []string{"-match", "a$", "-skip", "1", "-limit", "2"} })

			s.Then("the window of the matching lines is printed", func(t *testcase.T) {
				act(t)
				assert.Equal(t, []string{"beta", "gamma"}, output(t))
			})
		})

		s.When("the skip is past every match", func(s *testcase.Spec) {
			args.Let(s, func(t *testcase.T) []string { return []string{"-contains", "ta", "-skip", "10"} })

			s.Then("nothing is printed", func(t *testcase.T) {
				act(t)
				assert.Equal(t, 0, rec.Get(t).Code)
				assert.Empty(t, output(t))
			})
		})

		s.When("the input is empty", func(s *testcase.Spec) {
			body.LetValue(s, "")

			s.Then("nothing is printed", func(t *testcase.T) {
				act(t)
				assert.Equal(t, 0, rec.Get(t).Code)
				assert.Empty(t, output(t))
			})
		})

		s.When("the pattern is invalid", func(s *testcase.Spec) {
			args.Let(s, func(t *testcase.T) []string { return []string{"-match", "("} })

			s.Then("it is reported as a bad request", func(t *testcase.T) {
				act(t)
				assert.Equal(t, cli.ExitCodeBadRequest, rec.Get(t).Code)
				assert.Empty(t, output(t))
				assert.Contains(t, rec.Get(t).Err.String(), "error parsing regexp")
			})
		})

		s.When("the limit is negative", func(s *testcase.Spec) {
			args.Let(s, func(t *testcase.T) []string { return []string{"-limit", "-1"} })

			s.Then("it is reported as a bad request", func(t *testcase.T) {
				act(t)
				assert.Equal(t, cli.ExitCodeBadRequest, rec.Get(t).Code)
			})
		})
	}

	s.Context("seq mode", func(s *testcase.Spec) {
		mode.LetValue(s, ModeSeq)
		behaviour(s)
	})

	s.Context("collection mode", func(s *testcase.Spec) {
		mode.LetValue(s, ModeCollection)
		behaviour(s)
	})
}

func TestLinesCommand_modeFromEnv(t *testing.T) {
	testcase.SetEnv(t, "LAZYFILTER_MODE", ModeCollection)

	var rec cli.ResponseRecorder
	cli.ServeCLI(Mux(), &rec, &cli.Request{
		Args: []string{"lines", "-contains", "ta", "-limit", "2"},
		Body: strings.NewReader(input),
	})
	assert.Equal(t, 0, rec.Code)
	assert.Equal(t, "beta\ndelta\n", rec.Out.String())
}

func TestLinesCommand_tail(t *testing.T) {
	s := testcase.NewSpec(t)

	var (
		tail = let.VarOf(s, "2")
		rec  = let.Var(s, func(t *testcase.T) *cli.ResponseRecorder { return &cli.ResponseRecorder{} })
	)
	act := func(t *testcase.T) {
		cli.ServeCLI(Mux(), rec.Get(t), &cli.Request{
			Args: []string{"lines", "-mode", ModeCollection, "-n", "-tail", tail.Get(t), "-contains", "ta"},
			Body: strings.NewReader(input),
		})
	}

	s.Then("only the last lines of the input are filtered", func(t *testcase.T) {
		act(t)
		assert.Equal(t, 0, rec.Get(t).Code)
		assert.Equal(t, "6:zeta\n", rec.Get(t).Out.String())
	})

	s.When("the tail is longer than the input", func(s *testcase.Spec) {
		tail.LetValue(s, "100")

		s.Then("every line is filtered", func(t *testcase.T) {
			act(t)
			assert.Equal(t, "2:beta\n4:delta\n6:zeta\n", rec.Get(t).Out.String())
		})
	})

	s.When("the tail is negative", func(s *testcase.Spec) {
		tail.LetValue(s, "-1")

		s.Then("it is reported as a bad request", func(t *testcase.T) {
			act(t)
			assert.Equal(t, cli.ExitCodeBadRequest, rec.Get(t).Code)
		})
	})
}

func TestBoltCommand(t *testing.T) {
	s := testcase.NewSpec(t)

	var (
		path = let.Var(s, func(t *testcase.T) string {
			p := filepath.Join(t.TempDir(), "entries.db")
			db, err := bolt.Open(p, 0600, nil)
			assert.NoError(t, err)
			assert.NoError(t, db.Update(func(tx *bolt.Tx) error {
				b, err := tx.CreateBucket([]byte("users"))
				if err != nil {
					return err
				}
				for i := range 5 {
					role := "member"
					if i%2 == 0 {
						role = "admin"
					}
					if err := b.Put([]byte(fmt.Sprintf("%s/%d", role, i)), []byte(fmt.Sprintf("user-%d", i))); err != nil {
						return err
					}
				}
				return nil
			}))
			assert.NoError(t, db.Close())
			return p
		})
		bucket = let.VarOf(s, "users")
		flags  = let.Var(s, func(t *testcase.T) []string { return nil })
		rec    = let.Var(s, func(t *testcase.T) *cli.ResponseRecorder { return &cli.ResponseRecorder{} })
	)
	act := func(t *testcase.T) {
		args := append([]string{"bolt"}, flags.Get(t)...)
		args = append(args, path.Get(t), bucket.Get(t))
		cli.ServeCLI(Mux(), rec.Get(t), &cli.Request{Args: args})
	}

	s.Then("every entry is listed in key order", func(t *testcase.T) {
		act(t)
		assert.Equal(t, 0, rec.Get(t).Code)
		assert.Equal(t, "admin/0=user-0\nadmin/2=user-2\nadmin/4=user-4\nmember/1=user-1\nmember/3=user-3\n", rec.Get(t).Out.String())
	})

	s.When("a prefix is given", func(s *testcase.Spec) {
		flags.Let(s, func(t *testcase.T) []string { return []string{"-prefix", "member/"} })

		s.Then("only the entries with the prefix are listed", func(t *testcase.T) {
			act(t)
			assert.Equal(t, "member/1=user-1\nmember/3=user-3\n", rec.Get(t).Out.String())
		})
	})

	s.When("a limit is given", func(s *testcase.Spec) {
		flags.Let(s, func(t *testcase.T) []string { return []string{"-prefix", "admin/", "-limit", "2"} })

		s.Then("at most that many entries are listed", func(t *testcase.T) {
			act(t)
			assert.Equal(t, "admin/0=user-0\nadmin/2=user-2\n", rec.Get(t).Out.String())
		})
	})

	s.When("the bucket doesn't exist", func(s *testcase.Spec) {
		bucket.LetValue(s, "unknown")

		s.Then("nothing is listed", func(t *testcase.T) {
			act(t)
			assert.Equal(t, 0, rec.Get(t).Code)
			assert.Empty(t, rec.Get(t).Out.String())
		})
	})

	s.When("the database file doesn't exist", func(s *testcase.Spec) {
		path.Let(s, func(t *testcase.T) string {
			return filepath.Join(t.TempDir(), "missing.db")
		})

		s.Then("it fails with a general error", func(t *testcase.T) {
			act(t)
			assert.Equal(t, cli.ExitCodeError, rec.Get(t).Code)
		})
	})

	s.When("the bucket argument is missing", func(s *testcase.Spec) {
		s.Then("it is reported as a bad request", func(t *testcase.T) {
			cli.ServeCLI(Mux(), rec.Get(t), &cli.Request{Args: []string{"bolt", path.Get(t)}})
			assert.Equal(t, cli.ExitCodeBadRequest, rec.Get(t).Code)
		})
	})
}
