package condition

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEvaluateOperators(t *testing.T) {
	t.Parallel()

	values := map[string]any{
		"country": "US",
		"age":     21,
		"bio":     "gopher at heart",
		"tags":    []string{},
		"score":   0,
		"active":  false,
		"blank":   "   ",
	}

	cases := []struct {
		name string
		cond Condition
		want bool
	}{
		{"equals match", Equals("country", "US"), true},
		{"equals mismatch", Equals("country", "CA"), false},
		{"equals absent field", Equals("missing", "US"), false},
		{"equals numeric cross-type", Equals("age", 21.0), true},
		{"not equals", NotEquals("country", "CA"), true},
		{"contains match", Contains("bio", "gopher"), true},
		{"contains mismatch", Contains("bio", "rustacean"), false},
		{"greater than true", GreaterThan("age", 18), true},
		{"greater than false", GreaterThan("age", 30), false},
		{"greater than non-numeric", GreaterThan("country", 10), false},
		{"less than true", LessThan("age", 30), true},
		{"is empty absent", IsEmpty("missing"), true},
		{"is empty blank string", IsEmpty("blank"), true},
		{"is empty slice", IsEmpty("tags"), true},
		{"zero is not empty", IsEmpty("score"), false},
		{"false is not empty", IsEmpty("active"), false},
		{"is not empty", IsNotEmpty("country"), true},
		{"is not empty absent", IsNotEmpty("missing"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := Evaluate(tc.cond, values)
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if got != tc.want {
				t.Fatalf("evaluate %s %q: got %v, want %v", tc.cond.Op(), tc.cond.Field(), got, tc.want)
			}
		})
	}
}

func TestEmptyComplement(t *testing.T) {
	t.Parallel()

	bags := []map[string]any{
		{},
		{"f": nil},
		{"f": ""},
		{"f": "  "},
		{"f": "x"},
		{"f": 0},
		{"f": false},
		{"f": []any{}},
		{"f": []any{"a"}},
		{"f": map[string]any{}},
	}

	for _, values := range bags {
		empty, err := Evaluate(IsEmpty("f"), values)
		if err != nil {
			t.Fatalf("isEmpty: %v", err)
		}
		notEmpty, err := Evaluate(IsNotEmpty("f"), values)
		if err != nil {
			t.Fatalf("isNotEmpty: %v", err)
		}
		if empty == notEmpty {
			t.Fatalf("isEmpty and isNotEmpty agree on %#v", values)
		}
	}
}

func TestEvaluateDoesNotMutateValues(t *testing.T) {
	t.Parallel()

	values := map[string]any{"country": "US", "age": 30}
	want := map[string]any{"country": "US", "age": 30}

	for range 3 {
		if _, err := Evaluate(Equals("country", "US"), values); err != nil {
			t.Fatalf("evaluate: %v", err)
		}
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("value bag mutated (-want +got):\n%s", diff)
	}
}

func TestCustomPredicate(t *testing.T) {
	t.Parallel()

	saw := map[string]any(nil)
	cond := Custom(func(values map[string]any) (bool, error) {
		saw = values
		return values["a"] == values["b"], nil
	})

	got, err := Evaluate(cond, map[string]any{"a": 1, "b": 1})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !got {
		t.Fatal("expected predicate to match")
	}
	if saw == nil {
		t.Fatal("predicate never saw the value bag")
	}
}

func TestCustomPredicateFault(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	cond := Custom(func(map[string]any) (bool, error) {
		return false, boom
	})

	_, err := Evaluate(cond, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped predicate error, got %v", err)
	}
}

func TestVisible(t *testing.T) {
	t.Parallel()

	values := map[string]any{"country": "US", "age": 21}

	ok, err := Visible(nil, values)
	if err != nil {
		t.Fatalf("visible: %v", err)
	}
	if !ok {
		t.Fatal("empty condition list must be vacuously visible")
	}

	ok, err = Visible([]Condition{
		Equals("country", "US"),
		GreaterThan("age", 18),
	}, values)
	if err != nil {
		t.Fatalf("visible: %v", err)
	}
	if !ok {
		t.Fatal("expected all conditions to pass")
	}

	calls := 0
	ok, err = Visible([]Condition{
		Equals("country", "CA"),
		Custom(func(map[string]any) (bool, error) {
			calls++
			return true, nil
		}),
	}, values)
	if err != nil {
		t.Fatalf("visible: %v", err)
	}
	if ok {
		t.Fatal("expected first condition to fail the chain")
	}
	if calls != 0 {
		t.Fatal("expected short-circuit before the custom predicate")
	}
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	if _, err := New(OpEquals, "", "US"); err == nil {
		t.Fatal("expected error for missing field name")
	}
	if _, err := New(OpContains, "bio", 42); err == nil {
		t.Fatal("expected error for non-string contains operand")
	}
	if _, err := New(OpCustom, "", nil); err == nil {
		t.Fatal("expected error for custom operator from document")
	}
	if _, err := New(Op("matches"), "bio", "x"); err == nil {
		t.Fatal("expected error for unknown operator")
	}

	cond, err := New(OpIsEmpty, "state", nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if cond.Op() != OpIsEmpty || cond.Field() != "state" {
		t.Fatalf("unexpected condition: %v %q", cond.Op(), cond.Field())
	}
}
