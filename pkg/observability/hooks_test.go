package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Import hooks
	p := NoopImportHooks{}
	p.OnClassifyStart(ctx, "vendor.xlsx")
	p.OnClassifyComplete(ctx, "vendor.xlsx", "pivot", time.Second, nil)
	p.OnExtractComplete(ctx, "pivot", 1200, time.Second, nil)
	p.OnExpandComplete(ctx, 40, 3, time.Second)
	p.OnReconcileComplete(ctx, 5, 12, time.Second)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "colors")
	c.OnCacheMiss(ctx, "prices")
	c.OnCacheSet(ctx, "colors", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "classify.internal", "/v1/classify")
	h.OnResponse(ctx, "POST", "classify.internal", "/v1/classify", 200, time.Second)
	h.OnError(ctx, "POST", "classify.internal", "/v1/classify", nil)
}

type testImportHooks struct{ NoopImportHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Import().(NoopImportHooks); !ok {
		t.Error("Import() should return NoopImportHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customImport := &testImportHooks{}
	SetImportHooks(customImport)
	if Import() != customImport {
		t.Error("SetImportHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Import().(NoopImportHooks); !ok {
		t.Error("Reset() should restore NoopImportHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testImportHooks{}
	SetImportHooks(custom)
	SetImportHooks(nil)
	if Import() != custom {
		t.Error("SetImportHooks(nil) should keep the previous hooks")
	}
}
