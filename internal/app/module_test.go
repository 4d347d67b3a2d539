package app

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"gorm.io/gorm"

	"github.com/fatflowers/paylist/internal/testutil"
)

type stopRecorder struct {
	mu    sync.Mutex
	hooks []string
}

func (r *stopRecorder) LogEvent(ev fxevent.Event) {
	if e, ok := ev.(*fxevent.OnStopExecuting); ok {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.hooks = append(r.hooks, e.CallerName+" "+e.FunctionName)
	}
}

func (r *stopRecorder) index(t *testing.T, name string) int {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, h := range r.hooks {
		if strings.Contains(h, name) {
			return i
		}
	}
	t.Fatalf("no OnStop hook from %s in %v", name, r.hooks)
	return -1
}

func TestModule_HTTPServerStopsBeforeLogDrains(t *testing.T) {
	t.Setenv("APP_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("APP_SERVER_HOST", "127.0.0.1")
	t.Setenv("APP_SERVER_PORT", "0")
	t.Setenv("APP_METRICS_ADDR", "127.0.0.1:0")

	rec := &stopRecorder{}
	a := fx.New(
		fx.WithLogger(func() fxevent.Logger { return rec }),
		compose(fx.Provide(func() *gorm.DB { return testutil.SetupTestDB(t) })),
		fx.Decorate(func(prometheus.Registerer) prometheus.Registerer { return prometheus.NewRegistry() }),
	)
	require.NoError(t, a.Err())

	ctx := context.Background()
	require.NoError(t, a.Start(ctx))
	require.NoError(t, a.Stop(ctx))

	httpStop := rec.index(t, "runServer")
	require.Less(t, httpStop, rec.index(t, "registerDrain"))
	require.Less(t, httpStop, rec.index(t, "registerStoreDrain"))
}
