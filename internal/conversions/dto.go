package conversions

// conversionFields is the converter payload. Clients may send it flat or
// nested under "converter".
type conversionFields struct {
	UID      string `json:"uid"`
	FileName string `json:"file_name"`
	FileExt  string `json:"file_ext"`
	Key      string `json:"key"`
}

type conversionRequest struct {
	conversionFields
	Converter *conversionFields `json:"converter"`
}

func (r conversionRequest) fields() conversionFields {
	if r.Converter != nil {
		return *r.Converter
	}
	return r.conversionFields
}

// ConversionResponse lists the keys of the uploaded outputs.
type ConversionResponse struct {
	FilePathToHTML string `json:"file_path_to_html"`
	FilePathToPDF  string `json:"file_path_to_pdf"`
}

func toResponse(res Result) ConversionResponse {
	return ConversionResponse{
		FilePathToHTML: res.HTMLKey,
		FilePathToPDF:  res.PDFKey,
	}
}
