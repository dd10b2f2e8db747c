package observability

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordSyncOperation(t *testing.T) {
	before := testutil.ToFloat64(syncOperationsCounter.WithLabelValues("create_habit", "applied"))

	RecordSyncOperation("create_habit", "applied")
	RecordSyncOperation("create_habit", "applied")

	after := testutil.ToFloat64(syncOperationsCounter.WithLabelValues("create_habit", "applied"))
	if after-before != 2 {
		t.Fatalf("expected counter to grow by 2, got %v", after-before)
	}
	if got := SyncOperationCount("create_habit", "applied"); got != after {
		t.Fatalf("SyncOperationCount = %v, want %v", got, after)
	}
}

func TestRecordRemoteRequest(t *testing.T) {
	before := RemoteRequestCount("documents.list", "error")
	RecordRemoteRequest("documents.list", "error")
	if got := RemoteRequestCount("documents.list", "error"); got-before != 1 {
		t.Fatalf("expected counter to grow by 1, got %v", got-before)
	}
}

func TestWriteTextfile(t *testing.T) {
	RecordSyncOperation("delete_habit", "reverted")

	path := filepath.Join(t.TempDir(), "streakline.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), `streakline_sync_operations_total{operation="delete_habit",status="reverted"}`) {
		t.Errorf("textfile missing sync counter:\n%s", data)
	}
}
