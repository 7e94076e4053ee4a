package pluralforms

import (
	"reflect"
	"testing"
)

func assertEqual(t *testing.T, expected, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(expected, got) {
		t.Logf("%#v != %#v", expected, got)
		t.Fail()
	}
}

func mustEval(t *testing.T, expr Expression, n uint32) int64 {
	t.Helper()
	v, err := expr.Eval(n)
	if err != nil {
		t.Fatalf("Eval(%d): %v", n, err)
	}
	return v
}

func TestCompiler(t *testing.T) {
	for _, data := range []struct {
		pluralForm string
		fixture    []int64
	}{
		// Germanic
		{"n != 1", []int64{1, 0, 1, 1, 1, 1}},
		// French
		{"n > 1", []int64{0, 0, 1, 1, 1, 1}},
		// Single form
		{"0", []int64{0, 0, 0, 0, 0, 0}},
		// Russian
		{"n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2",
			[]int64{2, 0, 1, 1, 1, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 0, 1, 1}},
		// Polish
		{"n==1 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2",
			[]int64{2, 0, 1, 1, 1, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 1, 1}},
		// Czech
		{"(n==1) ? 0 : (n>=2 && n<=4) ? 1 : 2", []int64{2, 0, 1, 1, 1, 2}},
	} {
		data := data
		t.Run(data.pluralForm, func(t *testing.T) {
			expr, err := Compile(data.pluralForm)
			if err != nil {
				t.Fatal(err)
			} else if expr == nil {
				t.Fatalf("'%s' compiled to nil", data.pluralForm)
			}
			for n, e := range data.fixture {
				i := mustEval(t, expr, uint32(n))
				if i != e {
					t.Logf("n = %d, expected %d, got %d", n, e, i)
					t.Fail()
				}
			}
		})
	}
}

func TestParser(t *testing.T) {
	expr, err := Compile("1+n/5*10")
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(t, expr, addExpr{
		left: numberExpr{1},
		right: mulExpr{
			left: divExpr{
				left:  varExpr{},
				right: numberExpr{5},
			},
			right: numberExpr{10},
		},
	})

	expr, err = Compile("1-(2+n)/3")
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(t, expr, subExpr{
		left: numberExpr{1},
		right: divExpr{
			left: addExpr{
				left:  numberExpr{2},
				right: varExpr{},
			},
			right: numberExpr{3},
		},
	})

	expr, err = Compile("(n==1)?0:n>=2&&n<=4?1:2")
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(t, expr, ternaryExpr{
		test: eqExpr{
			left:  varExpr{},
			right: numberExpr{1},
		},
		ifTrue: numberExpr{0},
		ifFalse: ternaryExpr{
			test: andExpr{
				left: gteExpr{
					left:  varExpr{},
					right: numberExpr{2},
				},
				right: lteExpr{
					left:  varExpr{},
					right: numberExpr{4},
				},
			},
			ifTrue:  numberExpr{1},
			ifFalse: numberExpr{2},
		},
	})
}

func TestParserBitwiseAndShift(t *testing.T) {
	expr, err := Compile("n & 1 | n >> 2 ^ 1")
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(t, expr, bitOrExpr{
		left: bitAndExpr{
			left:  varExpr{},
			right: numberExpr{1},
		},
		right: bitXorExpr{
			left: shrExpr{
				left:  varExpr{},
				right: numberExpr{2},
			},
			right: numberExpr{1},
		},
	})
	assertEqual(t, int64(1), mustEval(t, expr, 5))

	expr, err = Compile("-n + 8")
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(t, int64(5), mustEval(t, expr, 3))
}

func TestParserFailures(t *testing.T) {
	for _, expr := range []string{
		"1 + + 2",
		"n=1",
		"(n==1",
		"1 +",
		"m==1",
		"n=>1",
		"n>1 ? 0",
	} {
		_, err := Compile(expr)
		if err == nil {
			t.Logf("Expression %q unexpectedly compiled", expr)
			t.Fail()
		}
	}
}

func TestEvalFaults(t *testing.T) {
	expr, err := Compile("n/0")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := expr.Eval(1); err != ErrDivByZero {
		t.Fatalf("expected ErrDivByZero, got %v", err)
	}

	expr, err = Compile("n%(n-n)")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := expr.Eval(7); err != ErrDivByZero {
		t.Fatalf("expected ErrDivByZero, got %v", err)
	}

	expr, err = Compile("n << 100")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := expr.Eval(1); err != ErrOverflow {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
}
