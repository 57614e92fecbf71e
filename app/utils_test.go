package app

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mandelsoft/vfs/pkg/memoryfs"

	actx "go.hackfix.me/curator/app/context"
	"go.hackfix.me/curator/db"
)

var timeNow = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func timeNowFn() time.Time {
	return timeNow
}

type testApp struct {
	*App
	stdout, stderr *outputBuffer
	env            *mockEnv
}

func newTestApp(ctx context.Context) (*testApp, error) {
	// A unique name per app, to avoid clashing of in-memory SQLite DBs.
	rndName := make([]byte, 12)
	if _, err := rand.Read(rndName); err != nil {
		return nil, err
	}

	// Not using just :memory: to avoid 'no such table' issue.
	// See https://github.com/mattn/go-sqlite3#faq
	d, err := db.Open(ctx,
		fmt.Sprintf("file:curator-%x?mode=memory&cache=shared", rndName), timeNowFn)
	if err != nil {
		return nil, err
	}

	stdout, stderr := &outputBuffer{}, &outputBuffer{}
	env := &mockEnv{env: map[string]string{}}
	app, err := New("curator", "/config.json", "/data",
		WithTimeNow(timeNowFn),
		WithEnv(env),
		WithDB(d),
		WithContext(ctx),
		WithFDs(strings.NewReader(""), stdout, stderr),
		WithFS(memoryfs.New()),
		WithLogger(false),
	)
	if err != nil {
		return nil, err
	}

	return &testApp{App: app, stdout: stdout, stderr: stderr, env: env}, nil
}

// Run runs the app with args. Afterwards, the stdout and stderr buffers
// contain only the output of this run.
func (ta *testApp) Run(args ...string) error {
	err := ta.App.Run(args)
	ta.stdout.flush()
	ta.stderr.flush()

	return err
}

type mockEnv struct {
	mx  sync.RWMutex
	env map[string]string
}

var _ actx.Environment = (*mockEnv)(nil)

func (me *mockEnv) Get(key string) string {
	me.mx.RLock()
	defer me.mx.RUnlock()
	return me.env[key]
}

func (me *mockEnv) Set(key, val string) error {
	me.mx.Lock()
	defer me.mx.Unlock()
	me.env[key] = val
	return nil
}

// outputBuffer collects the output of a running command, and notifies
// watchers when a write matches their pattern.
type outputBuffer struct {
	mx      sync.Mutex
	current bytes.Buffer // output of the running command
	last    string       // output of the last finished command
	watches []*watch
}

type watch struct {
	rx  *regexp.Regexp
	idx int
	ch  chan string
}

func (b *outputBuffer) Write(p []byte) (int, error) {
	b.mx.Lock()
	defer b.mx.Unlock()

	remaining := b.watches[:0]
	for _, w := range b.watches {
		if m := w.rx.FindSubmatch(p); len(m) > w.idx {
			w.ch <- string(m[w.idx])
			continue
		}
		remaining = append(remaining, w)
	}
	b.watches = remaining

	return b.current.Write(p)
}

// waitFor returns a channel that receives the submatch at index idx of the
// first write that matches the rxPat pattern.
func (b *outputBuffer) waitFor(rxPat string, idx int) <-chan string {
	b.mx.Lock()
	defer b.mx.Unlock()

	ch := make(chan string, 1)
	b.watches = append(b.watches, &watch{rx: regexp.MustCompile(rxPat), idx: idx, ch: ch})

	return ch
}

func (b *outputBuffer) flush() {
	b.mx.Lock()
	defer b.mx.Unlock()
	b.last = b.current.String()
	b.current.Reset()
}

// String returns the output of the last finished command.
func (b *outputBuffer) String() string {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.last
}

// newTestContext returns a context that times out after timeout, and an
// assertion handling function that cancels the context prematurely and fails
// the test if the assertion fails. This is done to avoid waiting for the
// context timeout to be reached.
func newTestContext(t *testing.T, timeout time.Duration) (
	ctx context.Context, cancelCtx func(), assertHandler func(bool),
) {
	ctx, cancelCtx = context.WithTimeout(t.Context(), timeout)
	assertHandler = func(success bool) {
		if !success {
			cancelCtx()
			t.FailNow()
		}
	}

	return
}
