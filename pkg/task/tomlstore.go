package task

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/ternarybob/task/internal/fileutil"
)

// TOMLFile is the single file holding a task's steps for the toml backend.
const TOMLFile = "steps.toml"

// TOMLBackend keeps all steps of a task in one steps.toml file:
//
//	[steps]
//	ADD = "draft outline"
//	1 = "write intro"
type TOMLBackend struct{}

// Name returns "toml".
func (TOMLBackend) Name() string { return "toml" }

// Detect reports whether steps.toml exists.
func (TOMLBackend) Detect(taskDir string) bool {
	return fileutil.IsFile(filepath.Join(taskDir, TOMLFile))
}

// Open returns a store over taskDir/steps.toml.
func (TOMLBackend) Open(taskDir string) (StepStore, error) {
	return &tomlStore{path: filepath.Join(taskDir, TOMLFile)}, nil
}

type tomlDocument struct {
	Steps map[string]string `toml:"steps"`
}

type tomlStore struct {
	path string
}

func (s *tomlStore) load() (*tomlDocument, error) {
	doc := &tomlDocument{Steps: map[string]string{}}
	if _, err := toml.DecodeFile(s.path, doc); err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return nil, ioErr("decode steps", s.path, err)
	}
	if doc.Steps == nil {
		doc.Steps = map[string]string{}
	}
	return doc, nil
}

func (s *tomlStore) Labels() ([]Label, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	labels := make([]Label, 0, len(doc.Steps))
	for key := range doc.Steps {
		if l, ok := ParseLabel(key); ok {
			labels = append(labels, l)
		}
	}
	return labels, nil
}

func (s *tomlStore) Read(label Label) (string, error) {
	doc, err := s.load()
	if err != nil {
		return "", err
	}
	desc, ok := doc.Steps[string(label)]
	if !ok {
		return "", fmt.Errorf("step %s: %w", label, ErrNotFound)
	}
	return desc, nil
}

func (s *tomlStore) Write(label Label, description string) error {
	doc, err := s.load()
	if err != nil {
		return err
	}
	doc.Steps[string(label)] = description

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return ioErr("encode steps", s.path, err)
	}
	if err := fileutil.WriteFileAtomic(s.path, buf.Bytes()); err != nil {
		return ioErr("write steps", s.path, err)
	}
	return nil
}

func (s *tomlStore) Close() error {
	return nil
}
