package paint

// Store is the ordered collection of finished strokes. It only grows, except
// for Clear which drops everything.
type Store struct {
	strokes []Stroke
	points  int
}

// Append adds s after every stroke already stored.
func (st *Store) Append(s Stroke) {
	st.strokes = append(st.strokes, s)
	st.points += len(s.Points)
}

// Clear empties the store.
func (st *Store) Clear() {
	st.strokes = nil
	st.points = 0
}

// Len returns the number of strokes.
func (st *Store) Len() int {
	return len(st.strokes)
}

// Points returns the total number of points across all strokes.
func (st *Store) Points() int {
	return st.points
}

// Strokes returns the strokes in insertion order. The returned slice is
// shared with the store and must not be modified; appends after the call do
// not show up in it.
func (st *Store) Strokes() []Stroke {
	return st.strokes[:len(st.strokes):len(st.strokes)]
}
