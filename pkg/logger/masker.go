package logger

import (
	"io"
	"strings"
)

// Redacted replaces every masked secret.
const Redacted = "[redacted]"

// masker is an io.Writer that finds and masks sensitive data.
type masker struct {
	w io.Writer
	r *strings.Replacer
}

// NewMasker returns a writer that wraps w and replaces every non-empty secret
// with Redacted. If there is nothing to mask, w is returned unchanged.
func NewMasker(w io.Writer, secrets []string) io.Writer {
	var oldnew []string
	for _, secret := range secrets {
		secret = strings.TrimSpace(secret)
		if secret == "" {
			continue
		}
		oldnew = append(oldnew, secret, Redacted)
	}
	if len(oldnew) == 0 {
		return w
	}
	return &masker{
		w: w,
		r: strings.NewReplacer(oldnew...),
	}
}

// Write masks p before writing it to the base writer. It reports len(p) so
// callers never see a short write caused by the replacement.
func (m *masker) Write(p []byte) (int, error) {
	_, err := io.WriteString(m.w, m.r.Replace(string(p)))
	return len(p), err
}
