// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns the intents/ entries of a bot export archive into
// an ordered list of extraction results.
package convert

import (
	"fmt"
	"io"
	"regexp"

	"go.uber.org/zap"

	"github.com/pdiddy/intent-report/internal/archive"
	"github.com/pdiddy/intent-report/internal/extract"
	"github.com/pdiddy/intent-report/pkg/types"
)

// userSaysEntry matches the per-language user phrase files written next to
// each intent, e.g. intents/greet_usersays_en.json or ..._usersays_pt-br.json.
var userSaysEntry = regexp.MustCompile(`^(.+)_usersays_([A-Za-z]{2,3}(?:-[A-Za-z0-9]+)?)\.json$`)

// EntryError reports an archive entry that could not be converted.
type EntryError struct {
	Name string
	Err  error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("entry %s: %v", e.Name, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// Summary holds counts from one conversion run.
type Summary struct {
	Converted int
	Merged    int
	Skipped   int
}

// Total returns the number of entries processed.
func (s Summary) Total() int {
	return s.Converted + s.Merged + s.Skipped
}

// Archive converts the zip archive at path. Open failures are returned as is;
// entry failures are returned as *EntryError unless cfg.SkipMalformed is set.
func Archive(path string, cfg types.ReportConfig, log *zap.Logger) ([]types.Result, Summary, error) {
	c := newCollector(cfg, log)
	if err := archive.Walk(path, c.prefix(), c.add); err != nil {
		return nil, c.summary, err
	}
	c.done(path)
	return c.results, c.summary, nil
}

// Reader converts an archive held in r.
func Reader(r io.ReaderAt, size int64, cfg types.ReportConfig, log *zap.Logger) ([]types.Result, Summary, error) {
	c := newCollector(cfg, log)
	if err := archive.WalkReader(r, size, c.prefix(), c.add); err != nil {
		return nil, c.summary, err
	}
	c.done("<reader>")
	return c.results, c.summary, nil
}

// Entries converts already-read archive entries. The prefix in cfg is not
// applied; callers pass only the entries they want converted.
func Entries(entries []archive.Entry, cfg types.ReportConfig, log *zap.Logger) ([]types.Result, Summary, error) {
	c := newCollector(cfg, log)
	for _, e := range entries {
		if err := c.add(e); err != nil {
			return nil, c.summary, err
		}
	}
	c.done("<entries>")
	return c.results, c.summary, nil
}

// collector accumulates results in entry order. With merging enabled, byName
// maps an intent entry name to its position in results.
type collector struct {
	cfg     types.ReportConfig
	log     *zap.Logger
	results []types.Result
	byName  map[string]int
	summary Summary
}

func newCollector(cfg types.ReportConfig, log *zap.Logger) *collector {
	if log == nil {
		log = zap.NewNop()
	}
	return &collector{
		cfg:     cfg,
		log:     log,
		results: []types.Result{},
		byName:  make(map[string]int),
	}
}

func (c *collector) prefix() string {
	if c.cfg.Prefix == "" {
		return types.DefaultPrefix
	}
	return c.cfg.Prefix
}

func (c *collector) add(e archive.Entry) error {
	rec, err := extract.Decode(e.Data)
	if err != nil {
		return c.fail(e.Name, err)
	}

	if c.cfg.MergeUserSays {
		if m := userSaysEntry.FindStringSubmatch(e.Name); m != nil {
			return c.mergeUserSays(e.Name, m[1]+".json", m[2], rec)
		}
	}

	res, err := extract.Intent(e.Name, rec)
	if err != nil {
		return c.fail(e.Name, err)
	}

	c.log.Debug("converted entry",
		zap.String("entry", e.Name),
		zap.Int("user_says", len(res.UserSays)),
		zap.Int("answers", len(res.Answers)),
		zap.Int("quick_answers", len(res.QuickAnswers)))
	c.summary.Converted++

	if !c.cfg.MergeUserSays {
		c.results = append(c.results, res)
		return nil
	}

	slot := c.slot(e.Name)
	slot.UserSays = append(slot.UserSays, res.UserSays...)
	slot.Answers = append(slot.Answers, res.Answers...)
	slot.QuickAnswers = append(slot.QuickAnswers, res.QuickAnswers...)
	return nil
}

func (c *collector) mergeUserSays(name, intent, lang string, rec types.IntentRecord) error {
	texts, err := extract.UserSays(rec)
	if err != nil {
		return c.fail(name, err)
	}

	slot := c.slot(intent)
	slot.UserSays = append(slot.UserSays, texts...)

	c.log.Debug("merged user phrases",
		zap.String("entry", name),
		zap.String("intent", intent),
		zap.String("lang", lang),
		zap.Int("user_says", len(texts)))
	c.summary.Merged++
	return nil
}

// slot returns the result for the named intent, appending an empty one the
// first time the name is seen.
func (c *collector) slot(name string) *types.Result {
	if i, ok := c.byName[name]; ok {
		return &c.results[i]
	}
	c.byName[name] = len(c.results)
	c.results = append(c.results, types.Result{
		Name:         name,
		UserSays:     []string{},
		Answers:      []types.Answer{},
		QuickAnswers: []string{},
	})
	return &c.results[len(c.results)-1]
}

func (c *collector) fail(name string, err error) error {
	if !c.cfg.SkipMalformed {
		return &EntryError{Name: name, Err: err}
	}
	c.log.Warn("skipping entry", zap.String("entry", name), zap.Error(err))
	c.summary.Skipped++
	return nil
}

func (c *collector) done(source string) {
	c.log.Debug("conversion finished",
		zap.String("archive", source),
		zap.Int("intents", len(c.results)),
		zap.Int("converted", c.summary.Converted),
		zap.Int("merged", c.summary.Merged),
		zap.Int("skipped", c.summary.Skipped))
}
