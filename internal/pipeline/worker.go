package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/chat2md/internal/chunker"
	"github.com/dgallion1/chat2md/internal/document"
	"github.com/dgallion1/chat2md/internal/extract"
	"github.com/dgallion1/chat2md/internal/ledger"
	"github.com/dgallion1/chat2md/internal/output"
)

// Generator restructures one chunk. An empty result means the chunk is skipped.
type Generator interface {
	Generate(ctx context.Context, prompt string) string
}

// Worker processes one source file end to end.
type Worker struct {
	gen         Generator
	sources     *SourceReader
	writer      *output.Writer
	ledger      *ledger.Ledger
	plog        *ledger.ProcessLog
	log         *slog.Logger
	chunkCfg    chunker.Config
	defaultTags []string
}

func NewWorker(gen Generator, sources *SourceReader, writer *output.Writer, led *ledger.Ledger, plog *ledger.ProcessLog, log *slog.Logger, chunkCfg chunker.Config, defaultTags []string) *Worker {
	return &Worker{
		gen:         gen,
		sources:     sources,
		writer:      writer,
		ledger:      led,
		plog:        plog,
		log:         log,
		chunkCfg:    chunkCfg,
		defaultTags: defaultTags,
	}
}

// Process runs a file through the pipeline and returns its TOC entries.
// No fault escapes: a failed file returns no entries and is not recorded in
// the ledger, so the next run retries it.
func (w *Worker) Process(ctx context.Context, src Source, job *FileJob) (entries []document.TOCEntry) {
	log := w.log.With("file", src.Name)
	if err := w.plog.Start(src.Name); err != nil {
		log.Warn("process log write failed", "error", err)
	}

	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			entries = nil
			log.Error("processing failed", "error", err)
			job.AddError(err.Error())
			job.SetStatus(StatusFailed)
			if lerr := w.plog.Error(src.Name, err); lerr != nil {
				log.Warn("process log write failed", "error", lerr)
			}
			return
		}

		job.SetStatus(StatusLogged)
		if lerr := w.ledger.Append(src.Name); lerr != nil {
			log.Warn("could not record progress", "error", lerr)
		}
		log.Info("file processed", "documents", len(entries))
	}()

	entries, err = w.process(ctx, src, job, log)
	return entries
}

func (w *Worker) process(ctx context.Context, src Source, job *FileJob, log *slog.Logger) ([]document.TOCEntry, error) {
	doc, err := w.sources.Read(src)
	if err != nil {
		return nil, err
	}

	// Phase 1: Chunk
	job.SetStatus(StatusChunking)
	chunks := chunker.Split(doc.Text, w.chunkCfg)
	job.SetTotalChunks(len(chunks))
	log.Info("chunked document", "chunks", len(chunks), "est_tokens", chunker.EstimateTokens(doc.Text))

	// Phase 2: Generate, extract and classify each chunk in order.
	var entries []document.TOCEntry
	var trivial []document.Section
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		job.SetStatus(StatusGenerating)
		generated := w.gen.Generate(ctx, chunk)
		if generated == "" {
			log.Warn("chunk skipped, model returned nothing", "chunk", i)
			job.ChunkDone(true)
			continue
		}

		job.SetStatus(StatusExtracting)
		sections := extract.ExtractSections(generated)
		job.AddSections(len(sections))

		job.SetStatus(StatusClassifying)
		for _, cs := range extract.Triage(sections, w.chunkCfg.TrivialLimit) {
			if cs.Class == document.Trivial {
				trivial = append(trivial, cs.Section)
				continue
			}
			entry, err := w.writer.Write(document.OutputDocument{
				Title:  cs.Title,
				Slug:   extract.Slugify(cs.Title),
				Body:   cs.Body,
				Date:   doc.Date(),
				Tags:   extract.DeriveTags(cs.Body, w.defaultTags),
				Source: doc.Name,
			})
			if err != nil {
				return nil, err
			}
			job.AddDocument()
			entries = append(entries, entry)
		}
		job.ChunkDone(false)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Phase 3: Fold trivial sections into one aggregate per source.
	if len(trivial) > 0 {
		job.SetStatus(StatusAggregating)
		entry, err := w.writer.Write(document.OutputDocument{
			Title:  document.MiscTitle,
			Slug:   document.MiscSlug,
			Body:   extract.Aggregate(trivial),
			Date:   doc.Date(),
			Tags:   document.SortedTags(w.defaultTags),
			Source: doc.Name,
		})
		if err != nil {
			return nil, err
		}
		job.AddDocument()
		entries = append(entries, entry)
	}
	return entries, nil
}
