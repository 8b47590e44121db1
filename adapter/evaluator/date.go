package evaluator

import (
	"fmt"
	"strings"
	"time"

	"github.com/lackofbrilliance/mingo/domain"
)

// dateOperand evaluates a date operand. Non-date input yields Missing, per
// the soft semantics of the date extraction operators.
func (e *Evaluator) dateOperand(obj, expr any, opt *computeOpts) (time.Time, bool, error) {
	v, err := e.unary(obj, expr, opt)
	if err != nil {
		return time.Time{}, false, err
	}
	t, ok := v.(time.Time)
	if !ok {
		return time.Time{}, false, nil
	}
	return t.UTC(), true, nil
}

func dateExtract(fn func(time.Time) int) aggFn {
	return func(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
		t, ok, err := e.dateOperand(obj, expr, opt)
		if err != nil {
			return nil, err
		}
		if !ok {
			return domain.Missing, nil
		}
		return fn(t), nil
	}
}

func opDayOfYear(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	return dateExtract(func(t time.Time) int { return t.YearDay() })(e, obj, expr, opt)
}

func opDayOfMonth(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	return dateExtract(func(t time.Time) int { return t.Day() })(e, obj, expr, opt)
}

func opDayOfWeek(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	return dateExtract(func(t time.Time) int { return int(t.Weekday()) + 1 })(e, obj, expr, opt)
}

func opYear(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	return dateExtract(func(t time.Time) int { return t.Year() })(e, obj, expr, opt)
}

func opMonth(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	return dateExtract(func(t time.Time) int { return int(t.Month()) })(e, obj, expr, opt)
}

func opHour(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	return dateExtract(func(t time.Time) int { return t.Hour() })(e, obj, expr, opt)
}

func opMinute(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	return dateExtract(func(t time.Time) int { return t.Minute() })(e, obj, expr, opt)
}

func opSecond(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	return dateExtract(func(t time.Time) int { return t.Second() })(e, obj, expr, opt)
}

func opMillisecond(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	return dateExtract(func(t time.Time) int {
		return t.Nanosecond() / int(time.Millisecond)
	})(e, obj, expr, opt)
}

// opWeek computes the ISO week, anchored on Thursday.
func opWeek(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	return dateExtract(func(t time.Time) int {
		_, week := t.ISOWeek()
		return week
	})(e, obj, expr, opt)
}

// dateToString token table.
var dateTokens = map[byte]func(t time.Time) string{
	'%': func(time.Time) string { return "%" },
	'Y': func(t time.Time) string { return fmt.Sprintf("%04d", t.Year()) },
	'm': func(t time.Time) string { return fmt.Sprintf("%02d", int(t.Month())) },
	'd': func(t time.Time) string { return fmt.Sprintf("%02d", t.Day()) },
	'H': func(t time.Time) string { return fmt.Sprintf("%02d", t.Hour()) },
	'M': func(t time.Time) string { return fmt.Sprintf("%02d", t.Minute()) },
	'S': func(t time.Time) string { return fmt.Sprintf("%02d", t.Second()) },
	'L': func(t time.Time) string { return fmt.Sprintf("%03d", t.Nanosecond()/int(time.Millisecond)) },
	'j': func(t time.Time) string { return fmt.Sprintf("%03d", t.YearDay()) },
	'w': func(t time.Time) string { return fmt.Sprintf("%d", int(t.Weekday())+1) },
	'U': func(t time.Time) string { _, w := t.ISOWeek(); return fmt.Sprintf("%02d", w) },
}

func opDateToString(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	v, err := e.operand(obj, expr, opt)
	if err != nil {
		return nil, err
	}
	spec, ok := v.(map[string]any)
	if !ok {
		return nil, domain.ErrOperandType{Operator: "$dateToString", Want: "document with format and date", Actual: v}
	}
	format, ok := spec["format"].(string)
	if !ok {
		return nil, domain.ErrOperandType{Operator: "$dateToString", Want: "format string", Actual: spec["format"]}
	}
	t, ok := spec["date"].(time.Time)
	if !ok {
		return domain.Missing, nil
	}
	t = t.UTC()

	var b strings.Builder
	for i := 0; i < len(format); i++ {
		if format[i] != '%' || i == len(format)-1 {
			_ = b.WriteByte(format[i])
			continue
		}
		i++
		if fn, ok := dateTokens[format[i]]; ok {
			_, _ = b.WriteString(fn(t))
			continue
		}
		_ = b.WriteByte('%')
		_ = b.WriteByte(format[i])
	}
	return b.String(), nil
}
