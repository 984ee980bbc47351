package set

import "math/bits"

// Bitmap is a set of small non-negative ints.
type Bitmap struct {
	w []uint64
}

func MakeBitmap(n int) Bitmap {
	return Bitmap{w: make([]uint64, (n+63)/64)}
}

func (s *Bitmap) Set(i int) {
	for i/64 >= len(s.w) {
		s.w = append(s.w, 0)
	}

	s.w[i/64] |= 1 << (i % 64)
}

func (s Bitmap) IsSet(i int) bool {
	return i/64 < len(s.w) && s.w[i/64]&(1<<(i%64)) != 0
}

// Size is the number of elements.
func (s Bitmap) Size() (n int) {
	for _, w := range s.w {
		n += bits.OnesCount64(w)
	}

	return n
}
