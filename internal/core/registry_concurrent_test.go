package core

import (
	"net/url"
	"sync"
	"testing"

	"github.com/klauern/source-protection/internal/host"
)

func newTestGateHook(ctx *HookContext) Hook {
	return newTestHook("test-gate", "Test Gate", "Test gate hook", ctx)
}

// TestRegistryConcurrentOperations tests concurrent access to the registry
func TestRegistryConcurrentOperations(t *testing.T) {
	registry := NewRegistry(TestHookContext(nil))

	var wg sync.WaitGroup
	errors := make(chan error, 10)

	for i := 0; i < 5; i++ {
		wg.Go(func() {
			if err := registry.Register("concurrent-test-hook", newTestGateHook); err != nil {
				errors <- err
			}
		})
	}

	wg.Wait()
	close(errors)

	// Count errors - should have 4 errors (duplicates) and 1 success
	errorCount := 0
	for err := range errors {
		if err != nil {
			errorCount++
		}
	}

	if errorCount != 4 {
		t.Fatalf("expected 4 duplicate registration errors, got %d", errorCount)
	}

	if _, err := registry.Create("concurrent-test-hook"); err != nil {
		t.Fatal("expected hook to be registered successfully once")
	}
}

// TestRegistryBatchOperations tests concurrent batch registration
func TestRegistryBatchOperations(t *testing.T) {
	registry := NewRegistry(TestHookContext(nil))

	var wg sync.WaitGroup
	errors := make(chan error, 5)

	batch := map[string]HookFactory{
		"batch-test-1": newTestGateHook,
		"batch-test-2": newTestGateHook,
	}

	for i := 0; i < 5; i++ {
		wg.Go(func() {
			errors <- registry.RegisterBatch(batch)
		})
	}

	wg.Wait()
	close(errors)

	successCount := 0
	for err := range errors {
		if err == nil {
			successCount++
		}
	}

	if successCount != 1 {
		t.Fatalf("expected 1 successful batch registration, got %d", successCount)
	}
	if keys := registry.Keys(); len(keys) != 2 {
		t.Fatalf("expected both batch hooks to be registered, got %v", keys)
	}
}

// TestDispatcherConcurrentRequests runs the action gate from many goroutines at once
func TestDispatcherConcurrentRequests(t *testing.T) {
	perms := NewFakePermissions(map[string][]string{"alice": {"read"}})
	ctx := TestHookContext(nil)
	ctx.Permissions = perms

	registry := NewRegistry(ctx)
	registry.MustRegister("deny-raw", func(ctx *HookContext) Hook {
		return &denyActionHook{BaseHook: NewBaseHook("deny-raw", "Deny raw", "", UserCanPoint, ctx), action: "raw"}
	})
	d, err := registry.BuildDispatcher(nil)
	if err != nil {
		t.Fatalf("BuildDispatcher failed: %v", err)
	}

	title := &FakeTitle{Name: "Main Page"}
	var wg sync.WaitGroup
	denied := make(chan bool, 20)
	for i := 0; i < 20; i++ {
		action := "view"
		if i%2 == 0 {
			action = "raw"
		}
		wg.Go(func() {
			rc := host.NewRequestContext(FakeUser("alice"), title, url.Values{"action": {action}})
			denied <- !d.UserCan(rc, title, rc.User, action).Allowed()
		})
	}
	wg.Wait()
	close(denied)

	count := 0
	for d := range denied {
		if d {
			count++
		}
	}
	if count != 10 {
		t.Fatalf("expected 10 denials, got %d", count)
	}
}
