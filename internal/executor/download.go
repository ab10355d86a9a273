package executor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// errorBodyLimit caps how much of a failed download's body is read for its message
const errorBodyLimit = 64 << 10

// trackingReader remembers read-side failures so they can be told apart from disk failures
type trackingReader struct {
	r   io.Reader
	err error
}

func (t *trackingReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && err != io.EOF {
		t.err = err
	}
	return n, err
}

func saveDownload(ctx context.Context, resp *http.Response, res *Result, dir, filename string) error {
	if !IsSuccessStatus(res.Status) {
		data, err := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		if err != nil && ctx.Err() != nil {
			return err
		}
		res.Outcome = OutcomeFailed
		res.Message = genericDownloadMessage
		if msg := errorField(data); msg != "" {
			res.Message = msg
		}
		return nil
	}

	name := filepath.Base(filename)
	if name == "." || name == string(filepath.Separator) {
		name = "descarga"
	}

	tmp, err := os.CreateTemp(dir, ".descarga-*")
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Message = fmt.Sprintf("No se pudo crear el archivo en %s", dir)
		res.Err = fmt.Errorf("failed to create temp file: %w", err)
		return nil
	}
	tmpPath := tmp.Name()

	src := &trackingReader{r: resp.Body}
	n, copyErr := io.Copy(tmp, src)
	closeErr := tmp.Close()

	if copyErr != nil || closeErr != nil {
		os.Remove(tmpPath)
		if src.err != nil {
			return fmt.Errorf("failed to read download: %w", src.err)
		}
		res.Outcome = OutcomeFailed
		res.Message = "No se pudo guardar el archivo descargado"
		if copyErr != nil {
			res.Err = fmt.Errorf("failed to write download: %w", copyErr)
		} else {
			res.Err = fmt.Errorf("failed to close download: %w", closeErr)
		}
		return nil
	}

	target := filepath.Join(dir, name)
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		res.Outcome = OutcomeFailed
		res.Message = "No se pudo guardar el archivo descargado"
		res.Err = fmt.Errorf("failed to move download into place: %w", err)
		return nil
	}

	res.Outcome = OutcomeOK
	res.Path = target
	res.Size = n
	return nil
}
