package assessments_test

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/compliance"
	"github.com/JaimeStill/steward/goldenthread"
	"github.com/JaimeStill/steward/internal/buildings"
	"github.com/JaimeStill/steward/internal/documents"
	"github.com/JaimeStill/steward/internal/ledger"
	"github.com/JaimeStill/steward/pkg/lifecycle"
	"github.com/JaimeStill/steward/pkg/pagination"
)

type fakeBuildings struct {
	buildings.System
	byID map[uuid.UUID]buildings.Building
}

func (f *fakeBuildings) Find(_ context.Context, id uuid.UUID) (*buildings.Building, error) {
	b, ok := f.byID[id]
	if !ok {
		return nil, buildings.ErrNotFound
	}
	return &b, nil
}

type fakeDocuments struct {
	documents.System
	mu      sync.Mutex
	created []documents.CreateCommand
	live    map[uuid.UUID]bool
}

func (f *fakeDocuments) Discard(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.live[id] {
		return documents.ErrNotFound
	}
	delete(f.live, id)
	return nil
}

func (f *fakeDocuments) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.live)
}

func (f *fakeDocuments) Create(_ context.Context, cmd documents.CreateCommand) (*documents.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.created = append(f.created, cmd)
	id := uuid.New()
	if f.live == nil {
		f.live = make(map[uuid.UUID]bool)
	}
	f.live[id] = true
	return &documents.Document{
		ID:                id,
		BuildingID:        cmd.BuildingID,
		ComplianceAssetID: cmd.ComplianceAssetID,
		DocumentType:      cmd.DocumentType,
		OriginalFilename:  cmd.OriginalFilename,
		FilePath:          cmd.FilePath,
		OCRSource:         cmd.OCRSource,
		TextKey:           documents.TextKey(id),
		TextLength:        len([]rune(cmd.Text)),
		CreatedBy:         cmd.CreatedBy,
	}, nil
}

// memoryLedger links entries the same way the Postgres ledger does.
type memoryLedger struct {
	ledger.System
	mu      sync.Mutex
	entries []goldenthread.Entry
	// failAppend, when set, is returned by Append without recording.
	failAppend error
}

func (m *memoryLedger) Append(_ context.Context, e goldenthread.Entry) (*goldenthread.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failAppend != nil {
		return nil, m.failAppend
	}

	prev := ""
	for _, existing := range m.entries {
		if existing.BuildingID == e.BuildingID {
			prev = existing.ChainHash
		}
	}

	e.ContentHash = goldenthread.ContentHash(e)
	e.PrevHash = prev
	e.ChainHash = goldenthread.ChainHash(prev, e.ContentHash)
	e.Sequence = int64(len(m.entries) + 1)
	m.entries = append(m.entries, e)
	return &e, nil
}

func (m *memoryLedger) Find(_ context.Context, id uuid.UUID) (*goldenthread.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.entries {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, ledger.ErrNotFound
}

func (m *memoryLedger) Latest(_ context.Context, documentID uuid.UUID) (*goldenthread.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range slices.Backward(m.entries) {
		if e.DocumentID == documentID {
			return &e, nil
		}
	}
	return nil, ledger.ErrNotFound
}

func (m *memoryLedger) Due(_ context.Context, before time.Time) ([]goldenthread.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	heads := make(map[uuid.UUID]goldenthread.Entry)
	for _, e := range m.entries {
		heads[e.DocumentID] = e
	}

	var due []goldenthread.Entry
	for _, e := range m.entries {
		head := heads[e.DocumentID]
		if head.ID != e.ID || e.NextDueDate == nil {
			continue
		}
		if e.NextDueDate.Before(before) && e.ComplianceStatus != compliance.StatusExpired {
			due = append(due, e)
		}
	}
	return due, nil
}

func (m *memoryLedger) Verify(_ context.Context, buildingID uuid.UUID) (*ledger.Verification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var chain []goldenthread.Entry
	for _, e := range m.entries {
		if e.BuildingID == buildingID {
			chain = append(chain, e)
		}
	}
	v := ledger.VerifyChain(buildingID, chain)
	return &v, nil
}

func (m *memoryLedger) List(context.Context, pagination.PageRequest, ledger.Filters) (*pagination.PageResult[goldenthread.Entry], error) {
	return nil, nil
}

type published struct {
	subject string
	payload any
}

type recordingNotify struct {
	mu   sync.Mutex
	err  error
	sent []published
}

func (r *recordingNotify) Start(*lifecycle.Coordinator) error { return nil }
func (r *recordingNotify) Ready() bool                        { return true }

func (r *recordingNotify) Publish(_ context.Context, subject string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, published{subject: subject, payload: payload})
	return nil
}

func (r *recordingNotify) subjects() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.sent))
	for i, p := range r.sent {
		out[i] = p.subject
	}
	return out
}
