// Package live runs live speech-to-text sessions over a message
// connection.
//
// A session waits for one JSON init message carrying the language, then
// transcribes every binary audio frame on its own and answers each with
// {"text": "..."}. A failed frame is answered with {"error", "code"} and
// the session keeps streaming. Sessions share nothing with each other;
// one goroutine owns each session's state.
package live
