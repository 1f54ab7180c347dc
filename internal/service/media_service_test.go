package service

import (
	"bytes"
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wavecast/wavecast/internal/config"
	"github.com/wavecast/wavecast/internal/constants"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func makeFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file failed: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer failed: %v", err)
	}

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("read form failed: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	files := form.File["file"]
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got: %d", len(files))
	}
	return files[0]
}

func setupMediaServiceTest(t *testing.T) (*MediaService, string) {
	t.Helper()
	dir := t.TempDir()
	svc := NewMediaService(&config.MediaConfig{
		Dir:                    dir,
		PublicBase:             "/uploads",
		ImageMaxSize:           1024 * 1024,
		AudioMaxSize:           1024 * 1024,
		ImageAllowedTypes:      []string{"image/png", "image/jpeg"},
		ImageAllowedExtensions: []string{".png", ".jpg"},
	})
	return svc, dir
}

func TestMediaServiceUploadAndDelete(t *testing.T) {
	svc, dir := setupMediaServiceTest(t)
	header := makeFileHeader(t, "avatar.png", pngHeader)

	obj, err := svc.Upload(header, constants.MediaSceneAvatar)
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if !strings.HasPrefix(obj.PublicID, "avatar/") {
		t.Fatalf("expected avatar scene prefix, got: %s", obj.PublicID)
	}
	if !strings.HasPrefix(obj.URL, "/uploads/avatar/") {
		t.Fatalf("unexpected public url: %s", obj.URL)
	}
	savePath := filepath.Join(dir, filepath.FromSlash(obj.PublicID))
	if _, err := os.Stat(savePath); err != nil {
		t.Fatalf("uploaded file missing: %v", err)
	}

	if err := svc.Delete(obj.PublicID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := os.Stat(savePath); !os.IsNotExist(err) {
		t.Fatalf("file should be removed, stat err: %v", err)
	}

	// 重复删除静默成功
	if err := svc.Delete(obj.PublicID); err != nil {
		t.Fatalf("second delete should be silent, got: %v", err)
	}
}

func TestMediaServiceUploadValidation(t *testing.T) {
	svc, _ := setupMediaServiceTest(t)

	if _, err := svc.Upload(nil, constants.MediaSceneAvatar); !errors.Is(err, ErrFileRequired) {
		t.Fatalf("expected ErrFileRequired, got: %v", err)
	}

	badExt := makeFileHeader(t, "avatar.exe", pngHeader)
	if _, err := svc.Upload(badExt, constants.MediaSceneAvatar); !errors.Is(err, ErrFileTypeNotAllowed) {
		t.Fatalf("expected ErrFileTypeNotAllowed for extension, got: %v", err)
	}

	// 扩展名伪装但内容不是图片
	fakePNG := makeFileHeader(t, "avatar.png", []byte("plain text payload"))
	if _, err := svc.Upload(fakePNG, constants.MediaSceneAvatar); !errors.Is(err, ErrFileTypeNotAllowed) {
		t.Fatalf("expected ErrFileTypeNotAllowed for content, got: %v", err)
	}

	big := makeFileHeader(t, "avatar.png", append(pngHeader, bytes.Repeat([]byte{0}, 2*1024*1024)...))
	if _, err := svc.Upload(big, constants.MediaSceneAvatar); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got: %v", err)
	}
}

func TestMediaServiceDeleteRejectsTraversal(t *testing.T) {
	svc, _ := setupMediaServiceTest(t)

	for _, publicID := range []string{"", "..", "../etc/passwd", "/etc/passwd"} {
		if err := svc.Delete(publicID); !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("publicID %q: expected ErrInvalidRequest, got: %v", publicID, err)
		}
	}
}

func TestNormalizeMediaScene(t *testing.T) {
	cases := map[string]string{
		"audio":   constants.MediaSceneAudio,
		" Poster": constants.MediaScenePoster,
		"avatar":  constants.MediaSceneAvatar,
		"bogus":   constants.MediaSceneAvatar,
		"":        constants.MediaSceneAvatar,
	}
	for raw, want := range cases {
		if got := normalizeMediaScene(raw); got != want {
			t.Fatalf("scene %q: expected %q, got %q", raw, want, got)
		}
	}
}
