package events

import (
	"errors"
	"reflect"
	"testing"
)

func TestBus_PublishOrder(t *testing.T) {
	b := New()
	var got []string
	for _, name := range []string{"first", "second", "third"} {
		name := name
		if err := b.Subscribe(ShowOpenIssues, func(args ...any) { got = append(got, name) }); err != nil {
			t.Fatalf("Subscribe() error = %v", err)
		}
	}

	if err := b.Publish(ShowOpenIssues); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	want := []string{"first", "second", "third"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("listeners ran in order %v, want %v", got, want)
	}
}

func TestBus_PublishArgs(t *testing.T) {
	b := New()
	var got []any
	_ = b.Subscribe(HidePullRequests, func(args ...any) { got = args })

	if err := b.Publish(HidePullRequests, 1, "two"); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if !reflect.DeepEqual(got, []any{1, "two"}) {
		t.Errorf("listener got %v, want [1 two]", got)
	}
}

func TestBus_OnlyMatchingListenersRun(t *testing.T) {
	b := New()
	calls := 0
	_ = b.Subscribe(ShowClosedIssues, func(...any) { calls++ })

	_ = b.Publish(HideClosedIssues)
	if calls != 0 {
		t.Errorf("listener for another event ran %d times", calls)
	}
	_ = b.Publish(ShowClosedIssues)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestBus_PublishWithoutListeners(t *testing.T) {
	b := New()
	for _, ev := range Vocabulary {
		if err := b.Publish(ev); err != nil {
			t.Errorf("Publish(%s) error = %v", ev, err)
		}
	}
}

func TestBus_UnknownEvent(t *testing.T) {
	b := New()

	err := b.Subscribe("show-everything", func(...any) {})
	var unknown *UnknownEventError
	if !errors.As(err, &unknown) {
		t.Fatalf("Subscribe() error = %v, want *UnknownEventError", err)
	}
	if unknown.Event != "show-everything" {
		t.Errorf("Event = %q", unknown.Event)
	}

	if err := b.Publish("show-everything"); !errors.As(err, &unknown) {
		t.Errorf("Publish() error = %v, want *UnknownEventError", err)
	}
}

func TestBus_SubscribeFromListener(t *testing.T) {
	b := New()
	late := 0
	_ = b.Subscribe(ShowOpenIssues, func(...any) {
		_ = b.Subscribe(ShowOpenIssues, func(...any) { late++ })
	})

	_ = b.Publish(ShowOpenIssues)
	if late != 0 {
		t.Errorf("listener added during publish ran in the same publish")
	}
	_ = b.Publish(ShowOpenIssues)
	if late != 1 {
		t.Errorf("late listener calls = %d, want 1", late)
	}
}
