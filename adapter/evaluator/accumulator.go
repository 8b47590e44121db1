package evaluator

import (
	"math"

	"github.com/lackofbrilliance/mingo/domain"
	"github.com/lackofbrilliance/mingo/pkg/structure"
)

// numbers filters the numeric values of a partition.
func numbers(values []any) []float64 {
	res := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := structure.AsFloat(v); ok {
			res = append(res, f)
		}
	}
	return res
}

func accSum(e *Evaluator, values []any) (any, error) {
	var sum float64
	for _, f := range numbers(values) {
		sum += f
	}
	return sum, nil
}

func accAvg(e *Evaluator, values []any) (any, error) {
	nums := numbers(values)
	if len(nums) == 0 {
		return nil, nil
	}
	var sum float64
	for _, f := range nums {
		sum += f
	}
	return sum / float64(len(nums)), nil
}

func accMin(e *Evaluator, values []any) (any, error) {
	return e.extreme(values, -1)
}

func accMax(e *Evaluator, values []any) (any, error) {
	return e.extreme(values, 1)
}

// extreme returns the smallest (sign -1) or largest (sign 1) defined value.
func (e *Evaluator) extreme(values []any, sign int) (any, error) {
	var best any
	found := false
	for _, v := range values {
		if domain.IsMissing(v) {
			continue
		}
		if !found {
			best, found = v, true
			continue
		}
		c, err := e.comparer.Compare(v, best)
		if err != nil {
			return nil, err
		}
		if c*sign > 0 {
			best = v
		}
	}
	if !found {
		return nil, nil
	}
	return best, nil
}

func accPush(e *Evaluator, values []any) (any, error) {
	res := make([]any, 0, len(values))
	for _, v := range values {
		if domain.IsMissing(v) {
			continue
		}
		res = append(res, v)
	}
	return res, nil
}

func accAddToSet(e *Evaluator, values []any) (any, error) {
	pushed, err := accPush(e, values)
	if err != nil {
		return nil, err
	}
	return e.Unique(pushed.([]any))
}

func accFirst(e *Evaluator, values []any) (any, error) {
	if len(values) == 0 {
		return domain.Missing, nil
	}
	return values[0], nil
}

func accLast(e *Evaluator, values []any) (any, error) {
	if len(values) == 0 {
		return domain.Missing, nil
	}
	return values[len(values)-1], nil
}

// stddev computes the standard deviation over the numeric values of a
// partition. The sample form divides the squared-deviation sum by N-1; the
// mean always divides by N.
func stddev(values []any, sampled bool) any {
	nums := numbers(values)
	n := len(nums)
	if n == 0 || (sampled && n < 2) {
		return nil
	}
	var sum float64
	for _, f := range nums {
		sum += f
	}
	mean := sum / float64(n)

	var sqSum float64
	for _, f := range nums {
		d := f - mean
		sqSum += d * d
	}
	div := float64(n)
	if sampled {
		div = float64(n - 1)
	}
	return math.Sqrt(sqSum / div)
}

func accStdDevPop(e *Evaluator, values []any) (any, error) {
	return stddev(values, false), nil
}

func accStdDevSamp(e *Evaluator, values []any) (any, error) {
	return stddev(values, true), nil
}
