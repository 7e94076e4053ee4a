package pluralforms

import "errors"

// Evaluation faults surfaced as errors instead of crashing the
// process.
var (
	ErrDivByZero = errors.New("division by zero")
	ErrOverflow  = errors.New("integer overflow")
)

// Expression is a plural-forms expression.  Eval evaluates it for a
// given n; arithmetic faults come back as errors.  Use Compile to
// obtain Expression instances.
type Expression interface {
	Eval(n uint32) (int64, error)
}

func logic(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// evalRange bounds intermediate results so overflow is detected
// portably without depending on the width of int.
const evalRange = 1 << 40

func checked(v int64) (int64, error) {
	if v >= evalRange || v <= -evalRange {
		return 0, ErrOverflow
	}
	return v, nil
}

type notExpr struct {
	sub Expression
}

func (e notExpr) Eval(n uint32) (int64, error) {
	v, err := e.sub.Eval(n)
	if err != nil {
		return 0, err
	}
	return logic(v == 0), nil
}

type negExpr struct {
	sub Expression
}

func (e negExpr) Eval(n uint32) (int64, error) {
	v, err := e.sub.Eval(n)
	if err != nil {
		return 0, err
	}
	return checked(-v)
}

type binaryExpr struct {
	left  Expression
	right Expression
}

func (e binaryExpr) operands(n uint32) (int64, int64, error) {
	l, err := e.left.Eval(n)
	if err != nil {
		return 0, 0, err
	}
	r, err := e.right.Eval(n)
	if err != nil {
		return 0, 0, err
	}
	return l, r, nil
}

type orExpr binaryExpr

func (e orExpr) Eval(n uint32) (int64, error) {
	l, err := e.left.Eval(n)
	if err != nil {
		return 0, err
	}
	if l != 0 {
		return 1, nil
	}
	r, err := e.right.Eval(n)
	if err != nil {
		return 0, err
	}
	return logic(r != 0), nil
}

type andExpr binaryExpr

func (e andExpr) Eval(n uint32) (int64, error) {
	l, err := e.left.Eval(n)
	if err != nil {
		return 0, err
	}
	if l == 0 {
		return 0, nil
	}
	r, err := e.right.Eval(n)
	if err != nil {
		return 0, err
	}
	return logic(r != 0), nil
}

type bitOrExpr binaryExpr

func (e bitOrExpr) Eval(n uint32) (int64, error) {
	l, r, err := binaryExpr(e).operands(n)
	if err != nil {
		return 0, err
	}
	return l | r, nil
}

type bitXorExpr binaryExpr

func (e bitXorExpr) Eval(n uint32) (int64, error) {
	l, r, err := binaryExpr(e).operands(n)
	if err != nil {
		return 0, err
	}
	return l ^ r, nil
}

type bitAndExpr binaryExpr

func (e bitAndExpr) Eval(n uint32) (int64, error) {
	l, r, err := binaryExpr(e).operands(n)
	if err != nil {
		return 0, err
	}
	return l & r, nil
}

type eqExpr binaryExpr

func (e eqExpr) Eval(n uint32) (int64, error) {
	l, r, err := binaryExpr(e).operands(n)
	if err != nil {
		return 0, err
	}
	return logic(l == r), nil
}

type neExpr binaryExpr

func (e neExpr) Eval(n uint32) (int64, error) {
	l, r, err := binaryExpr(e).operands(n)
	if err != nil {
		return 0, err
	}
	return logic(l != r), nil
}

type ltExpr binaryExpr

func (e ltExpr) Eval(n uint32) (int64, error) {
	l, r, err := binaryExpr(e).operands(n)
	if err != nil {
		return 0, err
	}
	return logic(l < r), nil
}

type lteExpr binaryExpr

func (e lteExpr) Eval(n uint32) (int64, error) {
	l, r, err := binaryExpr(e).operands(n)
	if err != nil {
		return 0, err
	}
	return logic(l <= r), nil
}

type gtExpr binaryExpr

func (e gtExpr) Eval(n uint32) (int64, error) {
	l, r, err := binaryExpr(e).operands(n)
	if err != nil {
		return 0, err
	}
	return logic(l > r), nil
}

type gteExpr binaryExpr

func (e gteExpr) Eval(n uint32) (int64, error) {
	l, r, err := binaryExpr(e).operands(n)
	if err != nil {
		return 0, err
	}
	return logic(l >= r), nil
}

type shlExpr binaryExpr

func (e shlExpr) Eval(n uint32) (int64, error) {
	l, r, err := binaryExpr(e).operands(n)
	if err != nil {
		return 0, err
	}
	if r < 0 || r >= 40 {
		return 0, ErrOverflow
	}
	return checked(l << uint(r))
}

type shrExpr binaryExpr

func (e shrExpr) Eval(n uint32) (int64, error) {
	l, r, err := binaryExpr(e).operands(n)
	if err != nil {
		return 0, err
	}
	if r < 0 || r >= 64 {
		return 0, ErrOverflow
	}
	return l >> uint(r), nil
}

type addExpr binaryExpr

func (e addExpr) Eval(n uint32) (int64, error) {
	l, r, err := binaryExpr(e).operands(n)
	if err != nil {
		return 0, err
	}
	return checked(l + r)
}

type subExpr binaryExpr

func (e subExpr) Eval(n uint32) (int64, error) {
	l, r, err := binaryExpr(e).operands(n)
	if err != nil {
		return 0, err
	}
	return checked(l - r)
}

type mulExpr binaryExpr

func (e mulExpr) Eval(n uint32) (int64, error) {
	l, r, err := binaryExpr(e).operands(n)
	if err != nil {
		return 0, err
	}
	return checked(l * r)
}

type divExpr binaryExpr

func (e divExpr) Eval(n uint32) (int64, error) {
	l, r, err := binaryExpr(e).operands(n)
	if err != nil {
		return 0, err
	}
	if r == 0 {
		return 0, ErrDivByZero
	}
	return l / r, nil
}

type modExpr binaryExpr

func (e modExpr) Eval(n uint32) (int64, error) {
	l, r, err := binaryExpr(e).operands(n)
	if err != nil {
		return 0, err
	}
	if r == 0 {
		return 0, ErrDivByZero
	}
	return l % r, nil
}

type ternaryExpr struct {
	test    Expression
	ifTrue  Expression
	ifFalse Expression
}

func (e ternaryExpr) Eval(n uint32) (int64, error) {
	v, err := e.test.Eval(n)
	if err != nil {
		return 0, err
	}
	if v != 0 {
		return e.ifTrue.Eval(n)
	}
	return e.ifFalse.Eval(n)
}

type numberExpr struct {
	value int64
}

func (e numberExpr) Eval(n uint32) (int64, error) {
	return e.value, nil
}

type varExpr struct{}

func (e varExpr) Eval(n uint32) (int64, error) {
	return int64(n), nil
}
