package storeclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// EncodeSubmission writes sub as a multipart/form-data body: scalar fields
// first, then the kept-reference JSON part, then one images part per file
// in staging order.
func EncodeSubmission(sub Submission) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	for _, f := range sub.Fields {
		if err := mw.WriteField(f.Name, f.Value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f.Name, err)
		}
	}

	if sub.Kept != nil {
		kept, err := json.Marshal(sub.Kept)
		if err != nil {
			return nil, "", fmt.Errorf("encode kept images: %w", err)
		}
		if err := mw.WriteField(FieldKept, string(kept)); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", FieldKept, err)
		}
	}

	for _, f := range sub.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			FieldImages, quoteEscaper.Replace(f.Name)))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)

		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create part %s: %w", f.Name, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", fmt.Errorf("write part %s: %w", f.Name, err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return body, mw.FormDataContentType(), nil
}
