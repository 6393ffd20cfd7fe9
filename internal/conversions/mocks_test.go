package conversions

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"cargo-backend/internal/queue"
	"cargo-backend/internal/shared/storage/object"
	"cargo-backend/internal/shared/telemetry"
	"cargo-backend/internal/staging"
)

const testBucket = "attachments"

type mockGateway struct{ mock.Mock }

func (m *mockGateway) Fetch(ctx context.Context, bucket, key, localPath string) error {
	return m.Called(ctx, bucket, key, localPath).Error(0)
}

func (m *mockGateway) Store(ctx context.Context, localPath, key, bucket string, visibility object.Visibility) error {
	return m.Called(ctx, localPath, key, bucket, visibility).Error(0)
}

func (m *mockGateway) Exists(ctx context.Context, bucket, key string) (bool, error) {
	args := m.Called(ctx, bucket, key)
	return args.Bool(0), args.Error(1)
}

func (m *mockGateway) PresignedURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, bucket, key, ttl)
	return args.String(0), args.Error(1)
}

func (m *mockGateway) storedKeys() []string {
	var keys []string
	for _, c := range m.Calls {
		if c.Method == "Store" {
			keys = append(keys, c.Arguments.String(2))
		}
	}
	return keys
}

type mockOffice struct{ mock.Mock }

func (m *mockOffice) ConvertToPDF(ctx context.Context, inputPath, outDir string) (string, error) {
	args := m.Called(ctx, inputPath, outDir)
	return args.String(0), args.Error(1)
}

type mockRenderer struct{ mock.Mock }

func (m *mockRenderer) RenderHTML(ctx context.Context, pdfPath, destDir, outName string) (string, error) {
	args := m.Called(ctx, pdfPath, destDir, outName)
	return args.String(0), args.Error(1)
}

type mockQueue struct{ mock.Mock }

func (m *mockQueue) Send(ctx context.Context, msg queue.Message) error {
	return m.Called(ctx, msg).Error(0)
}

type fixedPages struct {
	pages int
	err   error
}

func (f fixedPages) PageCount(string) (int, error) { return f.pages, f.err }

type fixture struct {
	svc      *Service
	store    *mockGateway
	office   *mockOffice
	renderer *mockRenderer
	root     string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    &mockGateway{},
		office:   &mockOffice{},
		renderer: &mockRenderer{},
		root:     t.TempDir(),
	}
	f.svc = &Service{
		Store:     f.store,
		Staging:   staging.New(f.root),
		Office:    f.office,
		Renderer:  f.renderer,
		Inspector: fixedPages{pages: 1},
		Bucket:    testBucket,
	}
	return f
}

func (f *fixture) dir(uid string) string {
	return filepath.Join(f.root, uid)
}

// writesFile makes a mock call drop a file at the path held in argument idx.
func writesFile(idx int, data []byte) func(mock.Arguments) {
	return func(args mock.Arguments) {
		if err := os.WriteFile(args.String(idx), data, 0o644); err != nil {
			panic(err)
		}
	}
}

// writesAt makes a mock call drop a file at a fixed path.
func writesAt(path string, data []byte) func(mock.Arguments) {
	return func(mock.Arguments) {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			panic(err)
		}
	}
}

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	telemetry.SetLogger(zap.New(core))
	t.Cleanup(func() { telemetry.SetLogger(nil) })
	return logs
}
