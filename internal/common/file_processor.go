package common

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"resumeai/internal/errors"
	"resumeai/internal/extract"
	"resumeai/internal/resume"
	"resumeai/internal/schema"
	"resumeai/internal/types"
	"resumeai/internal/utils"
)

// FileProcessor reads résumé and job description files from disk
type FileProcessor struct {
	logger      *errors.Logger
	maxFileSize int64
}

// NewFileProcessor creates a file processor. Files larger than maxFileSize
// bytes are rejected; zero disables the limit.
func NewFileProcessor(logger *errors.Logger, maxFileSize int64) *FileProcessor {
	return &FileProcessor{logger: logger, maxFileSize: maxFileSize}
}

// ReadFile reads raw file contents, enforcing the size limit
func (fp *FileProcessor) ReadFile(filename string) ([]byte, error) {
	if err := utils.ValidateInputFile(filename); err != nil {
		code := errors.ErrCodeFileNotReadable
		if _, statErr := os.Stat(filename); os.IsNotExist(statErr) {
			code = errors.ErrCodeFileNotFound
		}
		return nil, errors.NewIOError(code, fmt.Sprintf("Invalid input file: %s", filename), err)
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	defer func() {
		if err := file.Close(); err != nil && fp.logger != nil {
			fp.logger.Warn("Failed to close file", "filename", filename, "error", err)
		}
	}()

	var r io.Reader = file
	if fp.maxFileSize > 0 {
		r = io.LimitReader(file, fp.maxFileSize+1)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read file content: %s", filename), err)
	}
	if fp.maxFileSize > 0 && int64(len(content)) > fp.maxFileSize {
		return nil, errors.NewValidationError(errors.ErrCodeFileTooLarge,
			fmt.Sprintf("File %s exceeds the %s limit", filename, utils.FormatFileSize(fp.maxFileSize)), nil).
			WithContext("filename", filename)
	}
	return content, nil
}

// ReadText reads a document and returns its plain text along with the
// detected document format.
func (fp *FileProcessor) ReadText(filename string) (string, string, error) {
	data, err := fp.ReadFile(filename)
	if err != nil {
		return "", "", err
	}
	text, format, err := extract.Text(filepath.Base(filename), data)
	if err != nil {
		return "", "", err
	}
	if fp.logger != nil {
		fp.logger.Debug("Document text extracted",
			"filename", filename,
			"format", format,
			"size", utils.FormatFileSize(int64(len(data))))
	}
	return text, format, nil
}

// ReadResume loads a résumé. JSON files are validated against the résumé
// schema; every other supported document is parsed from its text.
func (fp *FileProcessor) ReadResume(filename string) (types.Resume, error) {
	if utils.IsJSONFile(filename) {
		data, err := fp.ReadFile(filename)
		if err != nil {
			return types.Resume{}, err
		}
		r, err := DecodeResume(data)
		if err != nil {
			if appErr, ok := errors.AsAppError(err); ok {
				return types.Resume{}, appErr.WithContext("filename", filename)
			}
			return types.Resume{}, err
		}
		r.SourceFormat = "json"
		return r, nil
	}

	text, format, err := fp.ReadText(filename)
	if err != nil {
		return types.Resume{}, err
	}
	r := resume.Parse(text)
	r.SourceFormat = format
	return r, nil
}

// ReadJobDescriptions reads every JD file as plain text, in order.
func (fp *FileProcessor) ReadJobDescriptions(filenames ...string) ([]string, error) {
	texts := make([]string, len(filenames))
	for i, filename := range filenames {
		text, _, err := fp.ReadText(filename)
		if err != nil {
			return nil, err
		}
		texts[i] = text
	}
	return texts, nil
}

// DecodeResume validates and decodes a JSON résumé, mapping schema
// violations to a SCHEMA_VIOLATION application error.
func DecodeResume(data []byte) (types.Resume, error) {
	r, err := schema.DecodeResume(data)
	if err == nil {
		return r, nil
	}
	var ve *schema.ValidationError
	if stderrors.As(err, &ve) {
		return types.Resume{}, errors.NewValidationError(errors.ErrCodeSchemaViolation,
			"Resume does not match the resume schema", err).
			WithContext("fields", ve.Fields())
	}
	return types.Resume{}, errors.NewValidationError(errors.ErrCodeInvalidResume,
		"Resume is not valid JSON", err)
}

// WriteFile writes content to a file with directory creation
func (fp *FileProcessor) WriteFile(filename, content string) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.NewIOError("DIRECTORY_CREATE_FAILED",
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}

	if err := os.WriteFile(filename, []byte(content), 0600); err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}
	return nil
}

// ValidateOutputFile validates output file path
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil // stdout is valid
	}

	if err := utils.ValidateOutputFile(filename); err != nil {
		return errors.NewValidationError("INVALID_OUTPUT_FILE",
			fmt.Sprintf("Invalid output file: %s", filename), err)
	}
	return nil
}
