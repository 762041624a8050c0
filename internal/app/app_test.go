package app

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/habitcheck/internal/journal/journaltest"
	"github.com/abhisek/habitcheck/internal/screens/home"
	"github.com/abhisek/habitcheck/internal/screens/welcome"
)

func TestStartScreen(t *testing.T) {
	svc := journaltest.New(t)
	m := newAppModel(Options{Service: svc})
	if _, ok := m.router.Active().(*welcome.WelcomeScreen); !ok {
		t.Errorf("first run should start on welcome, got %T", m.router.Active())
	}

	if err := svc.SetOnboardingComplete(context.Background(), true); err != nil {
		t.Fatalf("SetOnboardingComplete: %v", err)
	}
	m = newAppModel(Options{Service: svc})
	if _, ok := m.router.Active().(*home.HomeScreen); !ok {
		t.Errorf("onboarded run should start on home, got %T", m.router.Active())
	}
}

func TestQuitKeys(t *testing.T) {
	svc := journaltest.WithTracker(t, "Walk")
	if err := svc.SetOnboardingComplete(context.Background(), true); err != nil {
		t.Fatalf("SetOnboardingComplete: %v", err)
	}
	m := newAppModel(Options{Service: svc})

	for _, key := range []tea.KeyPressMsg{{Code: 'c', Mod: tea.ModCtrl}, {Code: 'q', Text: "q"}} {
		_, cmd := m.Update(key)
		if cmd == nil {
			t.Fatalf("%s: expected quit command", key.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: expected tea.QuitMsg", key.String())
		}
	}
}

func TestQuitIgnoredWhileTyping(t *testing.T) {
	svc := journaltest.New(t)
	m := newAppModel(Options{Service: svc})

	// Leave the splash; with no trackers the welcome flow asks for a name.
	m.Update(tea.KeyPressMsg{Code: ' ', Text: " "})
	if !m.capturing() {
		t.Fatal("welcome should be capturing input while naming")
	}
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	if cmd != nil {
		if _, ok := cmd().(tea.QuitMsg); ok {
			t.Error("q should be typed, not quit, while naming")
		}
	}
}

func TestViewBeforeResize(t *testing.T) {
	m := newAppModel(Options{Service: journaltest.New(t)})
	v := m.View()
	if !v.AltScreen {
		t.Error("view should use the alt screen")
	}
}
