package services

import (
	"os"
	"path/filepath"

	"github.com/benhvien-dev/baocao-backend/internal/report/export"
)

// TemplateService đọc file mẫu văn bản và render với dữ liệu tùy ý.
type TemplateService struct {
	Dir string
}

func NewTemplateService(dir string) *TemplateService {
	return &TemplateService{Dir: dir}
}

// Render loads the named template from the template directory and renders
// it with data. Only the base name is honored, so a request cannot walk out
// of the directory.
func (ts *TemplateService) Render(name string, data map[string]interface{}) ([]byte, error) {
	if name == "" {
		return nil, export.ErrNoTemplate
	}
	path := filepath.Join(ts.Dir, filepath.Base(name))

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, export.ErrNoTemplate
		}
		return nil, err
	}

	return export.RenderTemplate(raw, data)
}
