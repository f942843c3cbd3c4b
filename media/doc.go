// Package media turns audio sources into local 16 kHz mono wav files and
// splits long files into chunks a transcription backend accepts.
//
// All external work goes through the Tool interface. FFmpeg implements it
// with yt-dlp, ffmpeg and ffprobe run via the process package; tests
// substitute a fake.
package media
