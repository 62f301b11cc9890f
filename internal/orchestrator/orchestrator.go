package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/podcast-flow/internal/chapters"
	"github.com/nguyentantai21042004/podcast-flow/internal/logger"
	"github.com/nguyentantai21042004/podcast-flow/internal/podcast"
	"github.com/nguyentantai21042004/podcast-flow/internal/script"
)

// Run executes the full generation pipeline for one podcast. A podcast
// that is already PROCESSING or COMPLETED is left alone, which makes Run
// safe to call again for the same id (startup re-enqueue, watcher retries).
func (o *implOrchestrator) Run(ctx context.Context, id uuid.UUID) error {
	pod, err := o.deps.Repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("loading podcast %s: %w", id, err)
	}
	if !pod.CanBeProcessed() {
		o.logger.Info(ctx, "podcast %s is %s, skipping run", id, pod.Status)
		return nil
	}

	if err := pod.MarkProcessing(); err != nil {
		return err
	}
	if err := o.deps.Repo.UpdateStatus(ctx, id, podcast.StatusProcessing, "", ""); err != nil {
		return fmt.Errorf("marking podcast %s processing: %w", id, err)
	}
	log := logger.WithPrefix(o.logger, pod.ID.String())
	log.Info(ctx, "run started book=%s lang=%s", pod.BookID, pod.Language)

	url, stage, err := o.runStages(ctx, log, pod)
	if err != nil {
		log.Error(ctx, "run failed stage=%s: %v", stage, err)
		if uerr := o.deps.Repo.UpdateStatus(ctx, id, podcast.StatusFailed, "", err.Error()); uerr != nil {
			log.Error(ctx, "failed to persist FAILED status: %v", uerr)
		}
		return &podcast.GenerationError{PodcastID: pod.ID.String(), Stage: stage, Err: err}
	}

	if err := pod.MarkCompleted(url); err != nil {
		return err
	}
	if err := o.deps.Repo.UpdateStatus(ctx, id, podcast.StatusCompleted, url, ""); err != nil {
		return fmt.Errorf("marking podcast %s completed: %w", pod.ID, err)
	}
	log.Info(ctx, "run completed url=%s", url)
	return nil
}

// runStages executes the stage sequence and reports which stage failed.
func (o *implOrchestrator) runStages(ctx context.Context, log logger.Logger, pod *podcast.Podcast) (string, string, error) {
	ref, bookTitle, err := o.deps.Books.Resolve(ctx, pod.BookID)
	if err != nil {
		return "", "resolve", err
	}
	title := pod.Title
	if title == "" {
		title = bookTitle
	}

	chs, err := o.deps.Extractor.Extract(ctx, ref)
	if err != nil {
		return "", "extract", err
	}
	log.Info(ctx, "extracted %d chapters from %s", len(chs), ref)

	chs = chapters.Filter(chs, o.cfg.MaxChapters)
	chs = chapters.Split(chs, o.cfg.MaxChapterChars)
	log.Debug(ctx, "processing %d chapters after filter/split", len(chs))

	summary, err := o.deps.Summarizer.SummarizeBook(ctx, title, chs)
	if err != nil {
		return "", "summarize", err
	}

	sc, err := o.deps.Generator.Generate(ctx, summary, title, o.cfg.TargetWords, pod.Language)
	if err != nil {
		return "", "script", err
	}
	// The script survives later stage failures, so a retry that dies in
	// synthesis still leaves a readable transcript behind.
	pod.AttachScript(sc)
	if err := o.deps.Repo.Save(ctx, pod); err != nil {
		return "", "script", fmt.Errorf("persisting script: %w", err)
	}
	log.Info(ctx, "script generated turns=%d chars=%d", sc.TurnCount(), sc.CharLen())

	blobs, err := o.deps.Synthesizer.Synthesize(ctx, sc, pod.Language)
	if err != nil {
		return "", "synthesize", err
	}

	episode, err := o.deps.Post.Process(ctx, blobs)
	if err != nil {
		return "", "postprocess", err
	}

	o.uploadTranscript(ctx, log, pod, sc, title)

	var url string
	uploadPath := fmt.Sprintf("%s/episode.mp3", pod.ID)
	err = o.uploadRetry.Do(ctx, func(attempt int) error {
		var uerr error
		url, uerr = o.deps.Uploader.Upload(ctx, uploadPath, episode, "audio/mpeg")
		if uerr != nil {
			log.Warn(ctx, "upload attempt %d failed for %s: %v", attempt, uploadPath, uerr)
		}
		return uerr
	})
	if err != nil {
		return "", "upload", err
	}
	return url, "", nil
}

// uploadTranscript writes and uploads the docx transcript. Best effort:
// the episode is the deliverable, a missing transcript only gets a warning.
func (o *implOrchestrator) uploadTranscript(ctx context.Context, log logger.Logger, pod *podcast.Podcast, sc *podcast.Script, title string) {
	dir, err := os.MkdirTemp("", "transcript-*")
	if err != nil {
		log.Warn(ctx, "transcript temp dir: %v", err)
		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "transcript.docx")
	if err := script.WriteTranscript(sc, title, path); err != nil {
		log.Warn(ctx, "transcript write: %v", err)
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn(ctx, "transcript read: %v", err)
		return
	}
	docPath := fmt.Sprintf("%s/transcript.docx", pod.ID)
	docType := "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	if _, err := o.deps.Uploader.Upload(ctx, docPath, data, docType); err != nil {
		log.Warn(ctx, "transcript upload: %v", err)
	}
}
