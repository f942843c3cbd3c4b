package media

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kbukum/subtitler/logger"
	"github.com/kbukum/subtitler/observability"
	"github.com/kbukum/subtitler/transcript"
)

const (
	DefaultMaxChunkBytes = 25 << 20
	DefaultChunkWindow   = 600 * time.Second
)

// Chunker splits audio files that exceed a backend's size limit.
type Chunker struct {
	tool Tool
	log  *logger.Logger
}

// NewChunker creates a Chunker over tool.
func NewChunker(tool Tool) *Chunker {
	return &Chunker{tool: tool, log: logger.WithComponent("media")}
}

// Split returns the chunks covering path. A file of at most maxBytes is
// returned as one chunk of itself at offset 0. Larger files are cut into
// consecutive windows until a cut reports exhaustion or failure; if no
// window was usable the unsplit file is returned instead.
//
// Chunk files other than path belong to the caller; see
// transcript.Chunks.Cleanup.
func (c *Chunker) Split(ctx context.Context, path string, maxBytes int64, window time.Duration) (transcript.Chunks, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanPipelineChunk)
	defer span.End()

	if maxBytes <= 0 {
		maxBytes = DefaultMaxChunkBytes
	}
	if window <= 0 {
		window = DefaultChunkWindow
	}

	info, err := os.Stat(path)
	if err != nil {
		observability.SetSpanError(ctx, err)
		return nil, fmt.Errorf("media: stat %s: %w", path, err)
	}
	if info.Size() <= maxBytes {
		observability.SetSpanAttribute(ctx, observability.AttrChunkCount, 1)
		return transcript.Chunks{{Path: path, Offset: 0, Index: 0}}, nil
	}

	var chunks transcript.Chunks
	for offset := time.Duration(0); ctx.Err() == nil; offset += window {
		out, result := c.tool.CutWindow(ctx, path, offset, window)
		if result != CutOK {
			c.log.WithContext(ctx).Debug("chunking stopped", logger.Fields(
				"result", result.String(), logger.FieldOffset, offset.Seconds(), logger.FieldChunkCount, len(chunks)))
			break
		}
		chunks = append(chunks, transcript.Chunk{Path: out, Offset: offset.Seconds(), Index: len(chunks)})
	}

	if err := ctx.Err(); err != nil {
		_ = chunks.Cleanup(path)
		observability.SetSpanError(ctx, err)
		return nil, err
	}
	if len(chunks) == 0 {
		c.log.WithContext(ctx).Warn("no usable chunks, sending the file unsplit", logger.Fields(
			logger.FieldPath, path, logger.FieldBytes, info.Size()))
		chunks = transcript.Chunks{{Path: path, Offset: 0, Index: 0}}
	}
	observability.SetSpanAttribute(ctx, observability.AttrChunkCount, len(chunks))
	return chunks, nil
}
