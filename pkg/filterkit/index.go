package filterkit

import (
	"go.llib.dev/frameless/pkg/compare"
)

// Index is a position of a CollectionView.
//
// An Index corresponds to a position of the base Collection where the element satisfies the predicate,
// or to the end position of the base.
// Two Index compare exactly as their base positions do.
// Comparing Index values which were derived from different base collections is undefined.
type Index[P compare.Interface[P]] struct {
	base P
}

// Base returns the position corresponding to the Index in the base Collection.
func (i Index[P]) Base() P { return i.base }

func (i Index[P]) Compare(oth Index[P]) int { return i.base.Compare(oth.base) }

func (i Index[P]) Equal(oth Index[P]) bool { return compare.IsEqual(i.Compare(oth)) }

func (i Index[P]) NotEqual(oth Index[P]) bool { return !i.Equal(oth) }

func (i Index[P]) Less(oth Index[P]) bool { return compare.IsLess(i.Compare(oth)) }

func (i Index[P]) LessOrEqual(oth Index[P]) bool { return compare.IsLessOrEqual(i.Compare(oth)) }

func (i Index[P]) Greater(oth Index[P]) bool { return compare.IsGreater(i.Compare(oth)) }

func (i Index[P]) GreaterOrEqual(oth Index[P]) bool { return compare.IsGreaterOrEqual(i.Compare(oth)) }

func isEqual[P compare.Interface[P]](a, b P) bool {
	return compare.IsEqual(a.Compare(b))
}
