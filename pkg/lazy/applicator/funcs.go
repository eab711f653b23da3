package applicator

import (
	"fmt"
	"reflect"
)

// Truthy reports whether v counts as present under loose "empty" rules:
// nil, false, numeric zero, "", "0", nil pointers and empty slices, maps,
// arrays and channels are all falsy. Structs are always truthy.
//
// Stages never use these rules on their own. A transform that returns 0 or
// "" produces a real value; wrap a predicate with TruthyPredicate to opt in.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != "" && x != "0"
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.Chan:
		return rv.Len() > 0
	case reflect.Struct:
		return true
	case reflect.Pointer, reflect.Interface, reflect.Func:
		return !rv.IsNil()
	default:
		return !rv.IsZero()
	}
}

// TruthyPredicate turns a function returning any value into a Predicate that
// accepts whenever that value is Truthy.
func TruthyPredicate(f func(value, extra any) any) Predicate {
	return func(value, extra any) bool {
		return Truthy(f(value, extra))
	}
}

// Pred adapts a typed predicate. Values that are not a T are rejected.
func Pred[T any](f func(T) bool) Predicate {
	return func(value, _ any) bool {
		v, ok := value.(T)
		return ok && f(v)
	}
}

// PredKeyed is Pred for predicates that also need the extra argument.
func PredKeyed[T any](f func(T, any) bool) Predicate {
	return func(value, extra any) bool {
		v, ok := value.(T)
		return ok && f(v, extra)
	}
}

// Fn adapts a typed transform. A value that is not a T is a wiring mistake
// and panics.
func Fn[T, R any](f func(T) R) Transform {
	return func(value, _ any) any {
		return f(mustBe[T](value))
	}
}

// FnKeyed is Fn for transforms that also need the extra argument.
func FnKeyed[T, R any](f func(T, any) R) Transform {
	return func(value, extra any) any {
		return f(mustBe[T](value), extra)
	}
}

func mustBe[T any](value any) T {
	v, ok := value.(T)
	if !ok {
		var zero T
		panic(fmt.Sprintf("applicator: transform expects %T, got %T", zero, value))
	}
	return v
}
