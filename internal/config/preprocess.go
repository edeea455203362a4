package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/joho/godotenv"
)

type templateContext struct {
	ENV map[string]string
}

var missingKeyRegex = regexp.MustCompile(`map has no entry for key "(.*?)"`)

// Preprocess replaces {{ .ENV.VAR }} placeholders with values from the
// process environment, falling back to .env files in envDirs. The process
// environment always wins and is never modified.
func Preprocess(input []byte, envDirs ...string) ([]byte, error) {
	env := map[string]string{}
	for _, dir := range envDirs {
		vals, err := godotenv.Read(filepath.Join(dir, ".env"))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, ErrTemplate.MsgErr("unable to read .env file in "+dir, err)
		}
		for k, v := range vals {
			if _, ok := env[k]; !ok {
				env[k] = v
			}
		}
	}
	for _, e := range os.Environ() {
		if k, v, ok := strings.Cut(e, "="); ok {
			env[k] = v
		}
	}

	tmpl, err := template.New("config").Option("missingkey=error").Parse(string(input))
	if err != nil {
		return nil, ErrTemplate.Err(err)
	}

	var output bytes.Buffer
	if err := tmpl.Execute(&output, templateContext{ENV: env}); err != nil {
		if m := missingKeyRegex.FindStringSubmatch(err.Error()); len(m) == 2 {
			return nil, ErrMissingEnv.Msg("missing environment variable: " + m[1] + " (set it in your shell or .env file)")
		}
		return nil, ErrTemplate.Err(err)
	}
	return output.Bytes(), nil
}
