package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/CourtEvo/CourtEvoVeroHub-sub005/internal/blob"
)

// ContentTypeCSV is the content type of published exports.
const ContentTypeCSV = "text/csv"

// Sink is the part of an artifact store the publisher needs.
type Sink interface {
	Put(ctx context.Context, key string, r io.Reader, opts blob.PutOptions) (blob.Info, error)
	Head(ctx context.Context, key string) (blob.Info, error)
}

// Publisher encodes export tables and stores them as artifacts.
type Publisher struct {
	store  Sink
	prefix string
	now    func() time.Time
}

// NewPublisher writes artifacts below prefix in store.
func NewPublisher(store Sink, prefix string) *Publisher {
	return &Publisher{store: store, prefix: prefix, now: func() time.Time { return time.Now().UTC() }}
}

// Publish stores rows as CSV under prefix/sessionID/<timestamp>-<uuid>.csv and
// returns the stored object as reported by Head.
func (p *Publisher) Publish(ctx context.Context, sessionID string, rows [][]string) (blob.Info, error) {
	if p.store == nil {
		return blob.Info{}, fmt.Errorf("publisher has no store")
	}
	data, err := CSVBytes(rows)
	if err != nil {
		return blob.Info{}, fmt.Errorf("encode export: %w", err)
	}
	now := p.now()
	key := path.Join(p.prefix, sessionID, fmt.Sprintf("%s-%s.csv", now.Format("20060102T150405Z"), uuid.NewString()))
	if _, err := p.store.Put(ctx, key, bytes.NewReader(data), blob.PutOptions{
		ContentType: ContentTypeCSV,
		Metadata: map[string]string{
			"session":  sessionID,
			"rows":     strconv.Itoa(len(rows)),
			"sections": strconv.Itoa(len(Sections(rows))),
		},
	}); err != nil {
		return blob.Info{}, fmt.Errorf("store export %s: %w", key, err)
	}
	info, err := p.store.Head(ctx, key)
	if err != nil {
		return blob.Info{}, fmt.Errorf("confirm export %s: %w", key, err)
	}
	if info.Size != int64(len(data)) {
		return blob.Info{}, fmt.Errorf("confirm export %s: stored %d bytes, wrote %d", key, info.Size, len(data))
	}
	return info, nil
}
