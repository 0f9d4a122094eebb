package remote

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
)

const pingMethod = "PING"

// Envelope field names.
const (
	fieldMethod         = "method"
	fieldPath           = "path"
	fieldQuery          = "query"
	fieldIdempotencyKey = "idempotencyKey"
	fieldBody           = "body"
	fieldUpload         = "upload"
	fieldStatus         = "status"
	fieldMessage        = "message"
)

// Bodies travel as JSON text in a string field rather than as structpb
// values, which would turn every number into a float64.
func bodyValue(raw []byte) *structpb.Value {
	return structpb.NewStringValue(string(raw))
}

// bodyOf returns the JSON body of an envelope, nil when absent or null.
func bodyOf(f map[string]*structpb.Value) []byte {
	b := f[fieldBody].GetStringValue()
	if b == "" || b == "null" {
		return nil
	}
	return []byte(b)
}

func encodeRequest(req Request) (*structpb.Struct, error) {
	fields := map[string]*structpb.Value{
		fieldMethod: structpb.NewStringValue(req.Method),
		fieldPath:   structpb.NewStringValue(req.Path),
	}

	if len(req.Query) > 0 {
		q := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(req.Query))}
		for k, vs := range req.Query {
			list := make([]*structpb.Value, 0, len(vs))
			for _, v := range vs {
				list = append(list, structpb.NewStringValue(v))
			}
			q.Fields[k] = structpb.NewListValue(&structpb.ListValue{Values: list})
		}
		fields[fieldQuery] = structpb.NewStructValue(q)
	}

	if req.IdempotencyKey != "" {
		fields[fieldIdempotencyKey] = structpb.NewStringValue(req.IdempotencyKey)
	}

	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		fields[fieldBody] = bodyValue(raw)
	}

	if req.Upload != nil {
		fields[fieldUpload] = structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"fileName":    structpb.NewStringValue(req.Upload.FileName),
			"contentType": structpb.NewStringValue(req.Upload.ContentType),
			"data":        structpb.NewStringValue(base64.StdEncoding.EncodeToString(req.Upload.Data)),
		}})
	}

	return &structpb.Struct{Fields: fields}, nil
}

func decodeRequest(s *structpb.Struct) (Request, error) {
	f := s.GetFields()
	req := Request{
		Method:         f[fieldMethod].GetStringValue(),
		Path:           f[fieldPath].GetStringValue(),
		IdempotencyKey: f[fieldIdempotencyKey].GetStringValue(),
	}
	if req.Method == "" {
		return Request{}, fmt.Errorf("envelope without method")
	}

	if q := f[fieldQuery].GetStructValue(); q != nil {
		req.Query = url.Values{}
		for k, v := range q.GetFields() {
			for _, item := range v.GetListValue().GetValues() {
				req.Query.Add(k, item.GetStringValue())
			}
		}
	}

	if raw := bodyOf(f); raw != nil {
		if !json.Valid(raw) {
			return Request{}, fmt.Errorf("decode body: invalid JSON")
		}
		req.Body = json.RawMessage(raw)
	}

	if up := f[fieldUpload].GetStructValue(); up != nil {
		uf := up.GetFields()
		data, err := base64.StdEncoding.DecodeString(uf["data"].GetStringValue())
		if err != nil {
			return Request{}, fmt.Errorf("decode upload: %w", err)
		}
		req.Upload = &models.Image{
			FileName:    uf["fileName"].GetStringValue(),
			ContentType: uf["contentType"].GetStringValue(),
			Data:        data,
		}
	}

	return req, nil
}

func encodeResponse(status int, body json.RawMessage, message string) (*structpb.Struct, error) {
	fields := map[string]*structpb.Value{
		fieldStatus: structpb.NewNumberValue(float64(status)),
	}
	if message != "" {
		fields[fieldMessage] = structpb.NewStringValue(message)
	}
	if len(body) > 0 {
		if !json.Valid(body) {
			return nil, fmt.Errorf("encode response body: invalid JSON")
		}
		fields[fieldBody] = bodyValue(body)
	}
	return &structpb.Struct{Fields: fields}, nil
}
