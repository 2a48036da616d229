// Package corpus loads the reference reviews that anchor the scoring prompt.
package corpus

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tastechain/reviewscore/internal/domain"
)

// maxLineBytes bounds a single corpus line.
const maxLineBytes = 1 << 20

// Parse reads "text,score" lines. Text is everything before the first comma,
// trimmed; score is the leading integer of the second field. Lines with empty
// text or no parseable score are skipped.
func Parse(r io.Reader) ([]domain.ReferenceReview, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var refs []domain.ReferenceReview
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), ",")
		if len(fields) < 2 {
			continue
		}
		text := strings.TrimSpace(fields[0])
		if text == "" {
			continue
		}
		score, ok := domain.ParseLeadingInt(fields[1])
		if !ok {
			continue
		}
		refs = append(refs, domain.ReferenceReview{Text: text, Score: score})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan corpus: %w", err)
	}
	return refs, nil
}

// Options locates a corpus. Source is a local path or an s3://bucket/key URI.
type Options struct {
	Source       string
	AWSRegion    string
	AWSAccessKey string
	AWSSecretKey string
}

// Load opens and parses the corpus named by opts.Source.
func Load(ctx context.Context, opts Options) ([]domain.ReferenceReview, error) {
	rc, err := open(ctx, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	refs, err := Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("parse corpus %s: %w", opts.Source, err)
	}
	return refs, nil
}

func open(ctx context.Context, opts Options) (io.ReadCloser, error) {
	if opts.Source == "" {
		return nil, fmt.Errorf("corpus source is empty")
	}

	if strings.HasPrefix(opts.Source, s3Scheme) {
		bucket, key, err := parseS3URI(opts.Source)
		if err != nil {
			return nil, err
		}
		s, err := newS3Source(ctx, opts)
		if err != nil {
			return nil, err
		}
		return s.Get(ctx, bucket, key)
	}

	f, err := os.Open(opts.Source)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	return f, nil
}
