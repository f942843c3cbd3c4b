// Package httpclient is the outbound HTTP layer used by the speech and
// LLM backends.
//
// An Adapter carries a base URL, default headers, auth and an optional
// circuit breaker and retry policy. Non-2xx responses become *Error values
// classified by status, so callers can tell a rejected request from an
// unreachable backend.
//
//	a, err := httpclient.New(httpclient.Config{
//	    Name:    "sensevoice",
//	    BaseURL: "http://localhost:8000",
//	    Timeout: 2 * time.Minute,
//	})
//	resp, err := httpclient.Post[result](ctx, a, "/api/v1/asr", &httpclient.MultipartBody{
//	    Fields: map[string]string{"lang": "yue"},
//	    Files:  []httpclient.FileField{{FieldName: "files", Path: wavPath}},
//	})
package httpclient
