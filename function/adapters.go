package function

// Func adapts a plain Go function to Callable.
type Func[A, R any] func(A) R

// Call invokes fn.
func (fn Func[A, R]) Call(a A) R {
	return fn(a)
}

// Args2 packs two arguments into the single argument of a Function.
type Args2[A1, A2 any] struct {
	A1 A1
	A2 A2
}

// Args3 packs three arguments into the single argument of a Function.
type Args3[A1, A2, A3 any] struct {
	A1 A1
	A2 A2
	A3 A3
}

// Of returns a Function holding fn, or an empty Function when fn is nil.
func Of[A, R any](fn func(A) R) *Function[A, R] {
	if fn == nil {
		return Empty[A, R]()
	}
	return New[A, R](Func[A, R](fn))
}

// Of0 returns a Function holding a zero-argument fn, or an empty Function when fn is nil.
func Of0[R any](fn func() R) *Function[struct{}, R] {
	if fn == nil {
		return Empty[struct{}, R]()
	}
	return Of(func(struct{}) R {
		return fn()
	})
}

// Of2 returns a Function holding a two-argument fn packed as Args2.
func Of2[A1, A2, R any](fn func(A1, A2) R) *Function[Args2[A1, A2], R] {
	if fn == nil {
		return Empty[Args2[A1, A2], R]()
	}
	return Of(func(args Args2[A1, A2]) R {
		return fn(args.A1, args.A2)
	})
}

// Of3 returns a Function holding a three-argument fn packed as Args3.
func Of3[A1, A2, A3, R any](fn func(A1, A2, A3) R) *Function[Args3[A1, A2, A3], R] {
	if fn == nil {
		return Empty[Args3[A1, A2, A3], R]()
	}
	return Of(func(args Args3[A1, A2, A3]) R {
		return fn(args.A1, args.A2, args.A3)
	})
}

// Call0 calls a Function built by Of0.
func Call0[R any](f *Function[struct{}, R]) (R, error) {
	return f.Call(struct{}{})
}

// Call2 packs a1 and a2 and calls f.
func Call2[A1, A2, R any](f *Function[Args2[A1, A2], R], a1 A1, a2 A2) (R, error) {
	return f.Call(Args2[A1, A2]{A1: a1, A2: a2})
}

// Call3 packs a1, a2 and a3 and calls f.
func Call3[A1, A2, A3, R any](f *Function[Args3[A1, A2, A3], R], a1 A1, a2 A2, a3 A3) (R, error) {
	return f.Call(Args3[A1, A2, A3]{A1: a1, A2: a2, A3: a3})
}
