package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/trivision/internal/camera"
	"github.com/dmitrijs2005/trivision/internal/capture"
	"github.com/dmitrijs2005/trivision/internal/common"
)

const scanHelp = "LIVE RECON. Commands: capture (c), rerun (r), back (b)"

// showProgress is installed as the pipeline state observer.
func (a *App) showProgress(s capture.State) {
	if s == capture.Classifying {
		fmt.Fprintln(a.out, "ANALYZING...")
	}
}

func (a *App) report(ctx context.Context, res capture.Result, err error) error {
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(a.out, "ERROR: %v\n", err)
		}
		return err
	}
	fmt.Fprintln(a.out, RenderCard(res.Verdict))
	if res.Entry.ID != "" {
		a.logger.Debug(ctx, "result recorded", "id", res.Entry.ID)
	}
	return nil
}

// Upload classifies an image file (JPEG or PNG, at most 5MB).
func (a *App) Upload(ctx context.Context, path string) error {
	fmt.Fprintln(a.out, "STATIC AUDIT:", path)
	res, err := a.pipeline.Run(ctx, capture.FileSource{Path: path})
	return a.report(ctx, res, err)
}

// Rerun classifies the last acquired image again.
func (a *App) Rerun(ctx context.Context) error {
	res, err := a.pipeline.Rerun(ctx)
	if errors.Is(err, common.ErrNothingToRerun) {
		fmt.Fprintln(a.out, "Nothing to rerun yet. Use upload or scan first.")
		return err
	}
	return a.report(ctx, res, err)
}

// Scan holds the camera for the duration of the scan view and captures a
// still on every "capture". The device is released when the view is left.
func (a *App) Scan(ctx context.Context) error {
	err := camera.With(ctx, a.camera, func(s camera.Stream) error {
		fmt.Fprintln(a.out, scanHelp)
		a.scanLoop(ctx, s)
		return nil
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, camera.ErrDeviceBusy):
		fmt.Fprintln(a.out, "ERROR: camera is already in use")
	case errors.Is(err, common.ErrAcquisitionDenied):
		a.logger.Warn(ctx, "camera unavailable", "url", a.config.CameraURL, "error", err)
		fmt.Fprintf(a.out, "ERROR: %s\n", common.ErrAcquisitionDenied)
	default:
		fmt.Fprintf(a.out, "ERROR: %v\n", err)
	}
	return err
}

func (a *App) scanLoop(ctx context.Context, s camera.Stream) {
	src := capture.StreamSource{Stream: s}
	for ctx.Err() == nil {
		fmt.Fprint(a.out, "scan> ")
		line, ok := readLine(a.reader)
		if !ok {
			return
		}

		switch line {
		case "":
			continue
		case "c", "capture":
			res, err := a.pipeline.Run(ctx, src)
			_ = a.report(ctx, res, err)
		case "r", "rerun":
			_ = a.Rerun(ctx)
		case "b", "back", "exit", "quit":
			return
		case "help":
			fmt.Fprintln(a.out, scanHelp)
		default:
			fmt.Fprintln(a.out, "Unknown command:", line)
		}
	}
}
