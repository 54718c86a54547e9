package entity

// Pair is the canonical, order-independent form of two participant ids.
type Pair struct {
	Low  string
	High string
}

func NewPair(a, b string) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{Low: a, High: b}
}

func (p Pair) Key() string {
	return p.Low + ":" + p.High
}

func (p Pair) Contains(userID string) bool {
	return p.Low == userID || p.High == userID
}
