package auth

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dualspace/launcher/internal/fingerprint"
	"github.com/dualspace/launcher/internal/imagestore"
	"github.com/dualspace/launcher/internal/logging"
	"github.com/dualspace/launcher/internal/profile"
)

func face(t *testing.T, brightLeft bool) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 90, 80))
	for y := 0; y < 80; y++ {
		for x := 0; x < 90; x++ {
			pos := x
			if !brightLeft {
				pos = 89 - x
			}
			img.SetGray(x, y, color.Gray{Y: uint8(230 - 2*pos)})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func newTestService(t *testing.T) (*Service, profile.Repository, imagestore.Store) {
	t.Helper()
	repo := profile.NewMemoryRepository()
	images, err := imagestore.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("image store: %v", err)
	}
	profiles := profile.NewService(repo, logging.Discard())
	svc := NewService(profiles, images, logging.Discard(), Options{PINCost: bcrypt.MinCost})
	return svc, repo, images
}

func register(t *testing.T, svc *Service, username string) profile.UserProfile {
	t.Helper()
	p, err := svc.Register(context.Background(), Enrollment{Username: username, Age: 30, PIN: "1234", Face: face(t, true)})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return p
}

func TestRegisterStoresFingerprintAndImage(t *testing.T) {
	svc, repo, images := newTestService(t)
	ctx := context.Background()
	p := register(t, svc, "ada")

	if len(p.FaceHash) != fingerprint.Size {
		t.Fatalf("expected %d-bit face hash, got %q", fingerprint.Size, p.FaceHash)
	}
	if p.PINHash == "" || p.PINHash == "1234" {
		t.Fatalf("expected hashed PIN")
	}
	if _, err := images.ReadBytes(ctx, "ada"); err != nil {
		t.Fatalf("expected stored image: %v", err)
	}
	if ok, _ := repo.Exists(ctx, "ada"); !ok {
		t.Fatalf("expected persisted profile")
	}
	if _, err := svc.Register(ctx, Enrollment{Username: "ada", Age: 30, PIN: "1234", Face: face(t, true)}); !errors.Is(err, profile.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	img := face(t, true)
	cases := []struct {
		name string
		in   Enrollment
		want error
	}{
		{"empty username", Enrollment{Age: 20, PIN: "1234", Face: img}, ErrInvalidUsername},
		{"guest username", Enrollment{Username: "guest", Age: 20, PIN: "1234", Face: img}, ErrInvalidUsername},
		{"age zero", Enrollment{Username: "a", Age: 0, PIN: "1234", Face: img}, ErrInvalidAge},
		{"short pin", Enrollment{Username: "a", Age: 20, PIN: "123", Face: img}, ErrInvalidPIN},
		{"letters in pin", Enrollment{Username: "a", Age: 20, PIN: "12a4", Face: img}, ErrInvalidPIN},
		{"no face", Enrollment{Username: "a", Age: 20, PIN: "1234"}, ErrMissingInput},
		{"bad face", Enrollment{Username: "a", Age: 20, PIN: "1234", Face: []byte("nope")}, fingerprint.ErrDecode},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestUnlockWithFaceAcceptsSameFace(t *testing.T) {
	svc, _, _ := newTestService(t)
	register(t, svc, "ada")

	res, err := svc.UnlockWithFace(context.Background(), "ada", face(t, true))
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if !res.Unlocked() || res.Distance != 0 || res.Profile.Username != "ada" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestUnlockWithFaceRejectsDifferentFace(t *testing.T) {
	svc, _, _ := newTestService(t)
	register(t, svc, "ada")

	res, err := svc.UnlockWithFace(context.Background(), "ada", face(t, false))
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if res.Decision != FaceRejected || !res.FallbackPIN {
		t.Fatalf("expected face rejection with PIN fallback, got %+v", res)
	}
	if res.Distance <= svc.Threshold() {
		t.Fatalf("expected distance above threshold, got %d", res.Distance)
	}
}

func TestUnlockWithFaceFailsClosed(t *testing.T) {
	svc, _, _ := newTestService(t)
	register(t, svc, "ada")
	ctx := context.Background()

	res, err := svc.UnlockWithFace(ctx, "ada", []byte("garbage"))
	if !errors.Is(err, fingerprint.ErrDecode) || res.Decision != FaceRejected {
		t.Fatalf("expected decode failure as rejection, got %+v %v", res, err)
	}

	res, err = svc.UnlockWithFace(ctx, "ada", nil)
	if !errors.Is(err, ErrMissingInput) || res.Decision != FaceRejected {
		t.Fatalf("expected missing capture as rejection, got %+v %v", res, err)
	}

	res, err = svc.UnlockWithFace(ctx, "nobody", face(t, true))
	if !errors.Is(err, profile.ErrNotFound) || res.Unlocked() {
		t.Fatalf("expected not found denial, got %+v %v", res, err)
	}
}

func TestUnlockWithFaceRecomputesMissingHash(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	p := register(t, svc, "ada")
	enrolled := p.FaceHash

	p.FaceHash = ""
	if err := repo.Put(ctx, p); err != nil {
		t.Fatalf("put: %v", err)
	}

	res, err := svc.UnlockWithFace(ctx, "ada", face(t, true))
	if err != nil || !res.Unlocked() {
		t.Fatalf("expected unlock from stored image, got %+v %v", res, err)
	}
	stored, _ := repo.Get(ctx, "ada")
	if stored.FaceHash != enrolled {
		t.Fatalf("expected face hash back-filled, got %q", stored.FaceHash)
	}
}

func TestUnlockWithFaceWithoutAnyReference(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	if err := repo.Create(ctx, profile.UserProfile{Username: "legacy", Age: 40, CreatedAt: time.Now()}); err != nil {
		t.Fatalf("create: %v", err)
	}
	res, err := svc.UnlockWithFace(ctx, "legacy", face(t, true))
	if !errors.Is(err, imagestore.ErrNotFound) || res.Decision != FaceRejected {
		t.Fatalf("expected rejection for missing image, got %+v %v", res, err)
	}
}

func TestUnlockWithPIN(t *testing.T) {
	svc, _, _ := newTestService(t)
	register(t, svc, "ada")
	ctx := context.Background()

	res, err := svc.UnlockWithPIN(ctx, "ada", "9999")
	if !errors.Is(err, ErrCredentialMismatch) || res.Decision != Denied {
		t.Fatalf("expected denial, got %+v %v", res, err)
	}
	// retries are allowed
	res, err = svc.UnlockWithPIN(ctx, "ada", "1234")
	if err != nil || !res.Unlocked() {
		t.Fatalf("expected unlock, got %+v %v", res, err)
	}
	if _, err := svc.UnlockWithPIN(ctx, "ada", ""); !errors.Is(err, ErrMissingInput) {
		t.Fatalf("expected missing input, got %v", err)
	}
}

func TestGuestIsEphemeral(t *testing.T) {
	svc, repo, _ := newTestService(t)
	res := svc.Guest()
	if !res.Unlocked() || !res.Profile.GuestMode || res.Profile.Username != "Guest" || res.Profile.Age != 25 {
		t.Fatalf("unexpected guest result: %+v", res)
	}
	if res.Profile.PINHash != "" {
		t.Fatalf("guest must not carry a PIN hash")
	}
	if ok, _ := repo.Exists(context.Background(), "Guest"); ok {
		t.Fatalf("guest must not be persisted")
	}
}

func TestConcurrentRegistrationsKeepWinnersImage(t *testing.T) {
	svc, repo, images := newTestService(t)
	ctx := context.Background()
	faces := [][]byte{face(t, true), face(t, false)}

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Register(ctx, Enrollment{Username: "ada", Age: 30, PIN: "1234", Face: faces[i%2]})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case !errors.Is(err, profile.ErrExists):
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one registration, got %d", succeeded)
	}

	stored, err := repo.Get(ctx, "ada")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	img, err := images.ReadBytes(ctx, "ada")
	if err != nil {
		t.Fatalf("read image: %v", err)
	}
	h, err := fingerprint.Compute(img)
	if err != nil {
		t.Fatalf("fingerprint stored image: %v", err)
	}
	if h.String() != stored.FaceHash {
		t.Fatalf("stored image does not belong to the registered profile")
	}
}
