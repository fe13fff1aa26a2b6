package driver

import (
	"context"
	"runtime"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"semdoc/internal/attrs"
	"semdoc/internal/comment"
	"semdoc/internal/diag"
	"semdoc/internal/markdown"
	"semdoc/internal/trace"
)

// Options tune RenderDoc and RenderAll. The zero value renders without a
// cache on GOMAXPROCS workers.
type Options struct {
	Jobs           int
	MaxDiagnostics int // per attribute; 0 is unlimited
	Cache          *DiskCache
	Observer       Observer
}

// Result is the rendered comment for one attribute.
type Result struct {
	Doc    attrs.AttributeDoc
	Text   string
	Bag    *diag.Bag
	Cached bool
}

// RenderDoc parses the note of doc and renders it with d. Degradations are
// reported in the result's bag under the attribute id; rendering never fails.
func RenderDoc(doc attrs.AttributeDoc, d *comment.Descriptor, opts Options) Result {
	res := Result{Doc: doc, Bag: diag.NewBag(opts.MaxDiagnostics)}
	rep := diag.BagReporter{Bag: res.Bag, Subject: doc.ID}

	var key Digest
	if opts.Cache != nil {
		key = renderKey(d.Fingerprint(), doc.Brief, doc.Note)
		var cached CachedRender
		if ok, err := opts.Cache.Get(key, &cached); err == nil && ok {
			res.Text = cached.Text
			res.Cached = true
			fromCached(cached.Diags, doc.ID, res.Bag)
			return res
		}
	}

	if strings.TrimSpace(doc.Brief) == "" {
		rep.Report(diag.RenEmptyBrief, diag.SevWarning, diag.Pos{}, "attribute has an empty brief")
	}
	blocks := markdown.ParseWithOptions(doc.Note, markdown.Options{Reporter: diag.NewDedupReporter(rep)})
	laid := comment.Layout(doc.Brief, blocks, d)
	res.Text = laid.Text
	reportOverlong(laid, d, rep)

	if opts.Cache != nil {
		// A failed write only costs a re-render next time.
		_ = opts.Cache.Put(key, &CachedRender{Text: res.Text, Diags: toCached(res.Bag.Items())})
	}
	return res
}

// reportOverlong flags body lines wider than max_width. The wrapper only
// overflows on a word it cannot break; the brief and code blocks are exempt.
func reportOverlong(laid comment.Rendered, d *comment.Descriptor, rep diag.Reporter) {
	prefixWidth := d.Width(d.LinePrefix())
	briefLine := 0
	if d.BlockOpen() != "" {
		briefLine = 1
	}
	for i, l := range strings.Split(laid.Text, "\n") {
		if i <= briefLine || laid.Code[i] || (d.BlockClose() != "" && l == d.BlockClose()) {
			continue
		}
		content := strings.TrimPrefix(l, d.LinePrefix())
		width := prefixWidth + d.Width(content)
		if width <= d.MaxWidth() {
			continue
		}
		fields := strings.Fields(content)
		if len(fields) == 0 {
			continue
		}
		word := fields[len(fields)-1]
		rep.Report(diag.RenOverlongWord, diag.SevWarning, diag.Pos{Line: i + 1, Col: 1},
			"line is "+strconv.Itoa(width)+" columns wide (max "+strconv.Itoa(d.MaxWidth())+
				") because "+strconv.Quote(word)+" cannot be broken")
	}
}

// RenderAll renders docs concurrently. Results are in input order. The first
// context error stops the batch; results rendered before it are kept.
func RenderAll(ctx context.Context, docs []attrs.AttributeDoc, d *comment.Descriptor, opts Options) ([]Result, error) {
	tracer := trace.FromContext(ctx)
	batch := trace.Begin(tracer, trace.ScopeBatch, "render_all", trace.ParentFrom(ctx))
	batch.WithExtra("format", d.Name()).WithExtra("docs", strconv.Itoa(len(docs)))

	results := make([]Result, len(docs))
	if len(docs) == 0 {
		batch.End("empty")
		return results, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	notify := opts.Observer
	if notify == nil {
		notify = func(Event) {}
	}
	for i, doc := range docs {
		notify(Event{Index: i, ID: doc.ID, Status: StatusQueued})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(docs)))

	var cached, warned int
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				notify(Event{Index: i, ID: doc.ID, Status: StatusError})
				return err
			}
			start := time.Now()
			notify(Event{Index: i, ID: doc.ID, Status: StatusWorking})

			span := trace.Begin(tracer, trace.ScopeAttribute, doc.ID, batch.ID())
			res := RenderDoc(doc, d, opts)
			results[i] = res // each index is written by one goroutine only

			status := StatusDone
			if res.Cached {
				status = StatusCached
				span.WithExtra("cached", "true")
			}
			span.End(strconv.Itoa(res.Bag.Len()) + " diagnostics")
			notify(Event{Index: i, ID: doc.ID, Status: status, Elapsed: time.Since(start)})
			return nil
		})
	}
	err := g.Wait()

	for _, r := range results {
		if r.Cached {
			cached++
		}
		if r.Bag != nil && r.Bag.Len() > 0 {
			warned++
		}
	}
	batch.WithExtra("cached", strconv.Itoa(cached)).WithExtra("with_diagnostics", strconv.Itoa(warned))
	if err != nil {
		batch.End(err.Error())
		return results, err
	}
	batch.End("ok")
	return results, nil
}

// Diagnostics merges the bags of results into one sorted bag without repeats.
func Diagnostics(results []Result) *diag.Bag {
	all := diag.NewBag(0)
	for _, r := range results {
		if r.Bag != nil {
			all.Merge(r.Bag)
		}
	}
	all.Sort()
	all.Dedup()
	return all
}
