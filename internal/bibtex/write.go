package bibtex

import "os"

// ReadFile reads a bibliography file. A missing file is equivalent to an
// empty bibliography, not an error.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return string(data), nil
}

// WriteFile writes merged bibliography text to path.
func WriteFile(path, text string) error {
	if len(text) > 0 && text[len(text)-1] != '\n' {
		text += "\n"
	}
	return os.WriteFile(path, []byte(text), 0644)
}
