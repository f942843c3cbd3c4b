// Package api exposes the transcription service over HTTP with gin.
//
//	POST /api/transcribe          {youtube_url, language} -> {srt_content, preview, filename}
//	POST /api/transcribe/upload   multipart file, language -> same
//	POST /api/minutes             multipart file or {youtube_url}, language, timestamps -> {text, filename}
//	POST /api/summarize           {text, mode} -> {result}
//	GET  /api/download/:filename  saved .srt or .txt file
//	GET  /api/live-stt            websocket live session
//
// Errors use the AppError body written by server.RespondWithError.
package api
