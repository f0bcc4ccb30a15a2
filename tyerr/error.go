package tyerr

import (
	"fmt"
	"log/slog"
)

// Errors collects the failures of independent obligations (for example, the
// queries of a scenario) so one failure does not abort its siblings
type Errors struct {
	errs []Obligation
}

type Obligation struct {
	Name string
	Err  error
}

func (r *Errors) With(name string, err ...error) *Errors {
	if r == nil {
		r = &Errors{}
	}
	for _, err := range err {
		r.errs = append(r.errs, Obligation{Name: name, Err: err})
	}
	return r
}

func (r *Errors) Merge(err *Errors) *Errors {
	if r == nil {
		return err
	}
	if err == nil {
		return r
	}
	if len(err.errs) == 0 {
		return r
	}
	r.errs = append(r.errs, err.errs...)
	return r
}

func (r *Errors) Errors() []Obligation {
	if r == nil {
		return nil
	}
	return r.errs
}

func (r *Errors) HasError() bool {
	if r == nil {
		return false
	}
	return len(r.errs) > 0
}

// Format renders err with its code when it is a TypeError
func Format(err error) string {
	if te, ok := err.(TypeError); ok {
		return FormatWithCode(te)
	}
	return err.Error()
}

func (r *Errors) LogValue() slog.Value {
	var vals []slog.Attr
	for i, v := range r.Errors() {
		vals = append(vals, slog.Attr{
			Key: fmt.Sprint("e", i),
			Value: slog.GroupValue(
				slog.String("obligation", v.Name),
				slog.String("msg", Format(v.Err)),
			),
		})
	}
	return slog.GroupValue(vals...)
}
