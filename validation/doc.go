// Package validation checks request input and reports failures as
// INVALID_INPUT AppErrors with per-field details.
//
// Struct tags, via go-playground/validator:
//
//	type SummarizeRequest struct {
//	    Text string `json:"text" validate:"required"`
//	    Mode string `json:"mode" validate:"required,oneof=condense declutter"`
//	}
//	err := validation.Validate(req)
//
// Hand-written checks:
//
//	v := validation.New()
//	v.OneOf("file", ext, allowed).MaxBytes("file", size, limit)
//	err := v.Err()
package validation
