package build

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/sitegarden/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegarden/internal/logfields"
)

// write materializes the artifacts below the output root in path order.
// In a dry run only the sizes are computed.
func (r *run) write(ctx context.Context, outputs []output) ([]ArtifactInfo, error) {
	infos := make([]ArtifactInfo, 0, len(outputs))
	if !r.opts.DryRun && r.opts.Clean {
		if err := r.cleanOutput(); err != nil {
			return nil, err
		}
	}

	for _, o := range outputs {
		if err := ctx.Err(); err != nil {
			return infos, err
		}
		info := ArtifactInfo{Path: o.artifact.Path, Emitter: o.emitter, Size: int64(len(o.artifact.Content))}
		if r.opts.DryRun {
			if o.artifact.SourcePath != "" {
				if st, err := os.Stat(o.artifact.SourcePath); err == nil {
					info.Size = st.Size()
				}
			}
			infos = append(infos, info)
			continue
		}

		dst := filepath.Join(r.opts.OutputDir, filepath.FromSlash(o.artifact.Path))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return infos, writeError(err, o)
		}
		if o.artifact.SourcePath != "" {
			n, err := copyFile(o.artifact.SourcePath, dst)
			if err != nil {
				return infos, writeError(err, o)
			}
			info.Size = n
		} else if err := os.WriteFile(dst, o.artifact.Content, 0o644); err != nil {
			return infos, writeError(err, o)
		}
		r.logger.Debug("Wrote artifact", logfields.Artifact(o.artifact.Path), logfields.Plugin(o.emitter))
		infos = append(infos, info)
	}
	return infos, nil
}

// cleanOutput removes the output directory, refusing when it is the
// content directory or one of its ancestors.
func (r *run) cleanOutput() error {
	out, err := filepath.Abs(r.opts.OutputDir)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "resolve output directory").Fatal().Build()
	}
	content, err := filepath.Abs(r.opts.ContentDir)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "resolve content directory").Fatal().Build()
	}
	if out == filepath.Dir(out) || out == content || strings.HasPrefix(content, out+string(filepath.Separator)) {
		return ferrors.WrapError(fmt.Errorf("%w: %s", ErrUnsafeOutput, out), ferrors.CategoryValidation, "output directory contains the content directory").
			Fatal().
			WithContext("output", out).
			Build()
	}
	if err := os.RemoveAll(out); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "clean output directory").Fatal().Build()
	}
	return nil
}

func writeError(err error, o output) error {
	return ferrors.WrapError(fmt.Errorf("%w: %w", ErrWrite, err), ferrors.CategoryFileSystem, "write artifact").
		Fatal().
		WithContext("artifact", o.artifact.Path).
		WithContext("emitter", o.emitter).
		Build()
}

func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return n, err
}
