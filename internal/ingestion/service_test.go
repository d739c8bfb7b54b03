package ingestion

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var pdfBytes = []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")

func newMemService(t *testing.T, maxSize int64) (*Service, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	return NewService(NewLocalStore(fsys, "uploads"), maxSize, nil), fsys
}

func TestSaveStoresDecodedPayload(t *testing.T) {
	svc, fsys := newMemService(t, 0)

	meta, err := svc.Save(context.Background(), Upload{
		Name: "cv.pdf",
		Type: "application/pdf",
		Data: base64.StdEncoding.EncodeToString(pdfBytes),
	})
	require.NoError(t, err)

	assert.Equal(t, "cv.pdf", meta.Name)
	assert.Equal(t, int64(len(pdfBytes)), meta.Size)
	assert.Equal(t, "application/pdf", meta.Type)

	got, err := afero.ReadFile(fsys, "uploads/cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, got)
}

func TestSaveAddsSuffixOnCollision(t *testing.T) {
	svc, fsys := newMemService(t, 0)
	data := base64.StdEncoding.EncodeToString([]byte("hello"))

	var names []string
	for i := 0; i < 3; i++ {
		meta, err := svc.Save(context.Background(), Upload{Name: "cv.txt", Data: data})
		require.NoError(t, err)
		names = append(names, meta.Name)
	}

	assert.Equal(t, []string{"cv.txt", "cv_1.txt", "cv_2.txt"}, names)
	for _, name := range names {
		ok, err := afero.Exists(fsys, "uploads/"+name)
		require.NoError(t, err)
		assert.True(t, ok, name)
	}
}

func TestSaveAcceptsDataURL(t *testing.T) {
	svc, _ := newMemService(t, 0)

	meta, err := svc.Save(context.Background(), Upload{
		Name: "notes.txt",
		Data: "data:text/plain;base64," + base64.StdEncoding.EncodeToString([]byte("python, docker")),
	})
	require.NoError(t, err)

	assert.Equal(t, "text/plain", meta.Type)
	assert.Equal(t, int64(14), meta.Size)
}

func TestSaveAcceptsUnpaddedAndURLSafeBase64(t *testing.T) {
	svc, _ := newMemService(t, 0)
	payload := []byte{0xfb, 0xff, 0xfe, 0x01}

	for _, enc := range []*base64.Encoding{base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		meta, err := svc.Save(context.Background(), Upload{Name: "blob.bin", Data: enc.EncodeToString(payload)})
		require.NoError(t, err)
		assert.Equal(t, int64(len(payload)), meta.Size)
	}
}

func TestSaveSniffsMissingType(t *testing.T) {
	svc, _ := newMemService(t, 0)

	meta, err := svc.Save(context.Background(), Upload{
		Name: "cv",
		Data: base64.StdEncoding.EncodeToString(pdfBytes),
	})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", meta.Type)
}

func TestSaveSanitizesName(t *testing.T) {
	svc, fsys := newMemService(t, 0)

	meta, err := svc.Save(context.Background(), Upload{
		Name: "../../secret/My CV.txt",
		Data: base64.StdEncoding.EncodeToString([]byte("x")),
	})
	require.NoError(t, err)

	assert.Equal(t, "My_CV.txt", meta.Name)
	ok, err := afero.Exists(fsys, "uploads/My_CV.txt")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSaveRejectsBadPayload(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		want error
	}{
		{name: "empty", data: "", want: ErrEmptyPayload},
		{name: "blank", data: "   ", want: ErrEmptyPayload},
		{name: "empty data url", data: "data:text/plain;base64,", want: ErrEmptyPayload},
		{name: "not base64", data: "%%% not base64 %%%", want: ErrDecode},
		{name: "data url without base64", data: "data:text/plain,hello", want: ErrDecode},
		{name: "too large", data: base64.StdEncoding.EncodeToString(make([]byte, 17)), want: ErrTooLarge},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, fsys := newMemService(t, 16)

			_, err := svc.Save(context.Background(), Upload{Name: "cv.txt", Data: tt.data})
			assert.ErrorIs(t, err, tt.want)

			ok, _ := afero.DirExists(fsys, "uploads")
			assert.False(t, ok, "nothing should be written")
		})
	}
}

type shortStore struct {
	Store
}

func (s shortStore) Size(ctx context.Context, name string) (int64, error) {
	size, err := s.Store.Size(ctx, name)
	return size - 1, err
}

func TestSaveDetectsSizeMismatch(t *testing.T) {
	svc := NewService(shortStore{NewLocalStore(afero.NewMemMapFs(), "uploads")}, 0, nil)

	_, err := svc.Save(context.Background(), Upload{Name: "cv.txt", Data: base64.StdEncoding.EncodeToString([]byte("abc"))})
	assert.ErrorIs(t, err, ErrSizeMismatch)
}

type fullStore struct {
	Store
	calls int
}

func (s *fullStore) Create(context.Context, string, string, []byte) error {
	s.calls++
	return ErrExists
}

func TestSaveGivesUpWhenNoNameIsFree(t *testing.T) {
	store := &fullStore{}
	svc := NewService(store, 0, nil)

	_, err := svc.SaveBytes(context.Background(), "cv.txt", "text/plain", []byte("abc"))
	assert.ErrorIs(t, err, ErrNoFreeName)
	assert.Equal(t, maxNameAttempts, store.calls)
}

type brokenStore struct {
	Store
}

func (brokenStore) Create(context.Context, string, string, []byte) error {
	return errors.New("disk on fire")
}

func TestSavePropagatesStoreErrors(t *testing.T) {
	svc := NewService(brokenStore{}, 0, nil)

	_, err := svc.SaveBytes(context.Background(), "cv.txt", "text/plain", []byte("abc"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestSaveLogsStoredFile(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	svc := NewService(NewLocalStore(afero.NewMemMapFs(), "uploads"), 0, zap.New(core))

	_, err := svc.SaveBytes(context.Background(), "cv.txt", "", []byte("python"))
	require.NoError(t, err)

	entries := observed.FilterMessage("upload stored").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "cv.txt", entries[0].ContextMap()["file_name"])
	assert.Equal(t, "uploads/cv.txt", entries[0].ContextMap()["location"])
}
