package storage_test

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/fizipop/uni-ai-app/internal/models"
	"github.com/fizipop/uni-ai-app/internal/storage"
)

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCreateAndVerifyUser(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.CreateUser("alice", "pw1"); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	user, err := store.VerifyUser("alice", "pw1")
	if err != nil {
		t.Fatalf("VerifyUser with correct password failed: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("expected username alice, got %q", user.Username)
	}
	if user.PasswordHash == "pw1" {
		t.Error("password stored in plaintext")
	}

	if _, err := store.VerifyUser("alice", "wrong"); !errors.Is(err, storage.ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestVerifyUnknownUserIndistinguishable(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.CreateUser("alice", "pw1"); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	_, unknownErr := store.VerifyUser("nobody", "pw1")
	_, wrongPwErr := store.VerifyUser("alice", "wrong")

	if !errors.Is(unknownErr, storage.ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", unknownErr)
	}
	if unknownErr.Error() != wrongPwErr.Error() {
		t.Errorf("unknown-user and wrong-password errors differ: %q vs %q", unknownErr, wrongPwErr)
	}
}

func TestCreateUserValidation(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.CreateUser("", "pw"); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("empty username: expected ErrInvalidInput, got %v", err)
	}
	if _, err := store.CreateUser("bob", "  "); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("blank password: expected ErrInvalidInput, got %v", err)
	}

	if _, err := store.CreateUser("bob", "pw"); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if _, err := store.CreateUser("bob", "other"); !errors.Is(err, storage.ErrUsernameExists) {
		t.Errorf("duplicate username: expected ErrUsernameExists, got %v", err)
	}
}

func TestConcurrentSignups(t *testing.T) {
	store := openTestStore(t)

	// Half the goroutines race on the same username, the rest sign up
	// distinct ones. Exactly one "carol" may win, regardless of
	// interleaving with the others.
	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_, errs[i] = store.CreateUser(fmt.Sprintf("user%d", i), "pw")
			} else {
				_, errs[i] = store.CreateUser("carol", "pw")
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i += 2 {
		if errs[i] != nil {
			t.Errorf("distinct signup user%d failed: %v", i, errs[i])
		}
	}

	carolWins := 0
	for i := 1; i < workers; i += 2 {
		if errs[i] == nil {
			carolWins++
		} else if !errors.Is(errs[i], storage.ErrUsernameExists) {
			t.Errorf("duplicate signup: expected ErrUsernameExists, got %v", errs[i])
		}
	}
	if carolWins != 1 {
		t.Errorf("expected exactly one successful signup for carol, got %d", carolWins)
	}

	if _, err := store.GetUserByUsername("carol"); err != nil {
		t.Errorf("carol should exist after the race: %v", err)
	}
}

func TestGetUserNotFound(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.GetUserByUsername("ghost"); !errors.Is(err, storage.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateProfilePartial(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.CreateUser("alice", "pw1"); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	ecs := []models.Extracurricular{{Name: "Chess Club", Hours: 120}, {Name: "Robotics", Hours: 80}}
	extraInfo := "IB diploma"
	if _, err := store.UpdateProfile("alice", storage.ProfileUpdate{
		Extracurriculars: &ecs,
		ExtraInfo:        &extraInfo,
	}); err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	// A later update naming only interest must not clear the rest.
	interest := "Law"
	profile, err := store.UpdateProfile("alice", storage.ProfileUpdate{Interest: &interest})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	if profile.Interest != "Law" {
		t.Errorf("expected interest Law, got %q", profile.Interest)
	}
	if len(profile.Extracurriculars) != 2 || profile.Extracurriculars[0].Name != "Chess Club" {
		t.Errorf("extracurriculars changed by unrelated update: %+v", profile.Extracurriculars)
	}
	if profile.ExtraInfo != "IB diploma" {
		t.Errorf("extraInfo changed by unrelated update: %q", profile.ExtraInfo)
	}

	percentage := 92.0
	profile, err = store.UpdateProfile("alice", storage.ProfileUpdate{Percentage: &percentage})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if profile.Percentage == nil || *profile.Percentage != 92.0 {
		t.Errorf("expected percentage 92, got %v", profile.Percentage)
	}
	if profile.Interest != "Law" {
		t.Errorf("interest changed by unrelated update: %q", profile.Interest)
	}
}

func TestUpdateProfileUnknownUser(t *testing.T) {
	store := openTestStore(t)

	interest := "Engineering"
	if _, err := store.UpdateProfile("ghost", storage.ProfileUpdate{Interest: &interest}); !errors.Is(err, storage.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
