package parsing

import "cargo-backend/internal/sovren"

// parseFields is the parser payload, flat or nested under "parser".
type parseFields struct {
	UID      string `json:"uid"`
	FileName string `json:"file_name"`
	FileExt  string `json:"file_ext"`
	Key      string `json:"key"`
}

type parseRequest struct {
	parseFields
	Parser *parseFields `json:"parser"`
}

func (r parseRequest) fields() parseFields {
	if r.Parser != nil {
		return *r.Parser
	}
	return r.parseFields
}

func (f parseFields) complete() bool {
	for _, v := range []string{f.UID, f.FileName, f.FileExt, f.Key} {
		if v == "" {
			return false
		}
	}
	return true
}

type parsedJSON struct {
	Contact    sovren.Contact      `json:"contact"`
	Employment []sovren.Employment `json:"employment"`
	Education  []sovren.Education  `json:"education"`
}

// ParseResponse is the parser endpoint body.
type ParseResponse struct {
	JSON parsedJSON `json:"json"`
	Code int        `json:"code"`
}

func toResponse(res sovren.Result) ParseResponse {
	return ParseResponse{
		JSON: parsedJSON{
			Contact:    res.Contact,
			Employment: res.Employment,
			Education:  res.Education,
		},
		Code: res.Code,
	}
}
