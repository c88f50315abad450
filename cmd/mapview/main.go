// mapview replays a recorded visual-odometry trajectory, promotes the
// requested frames to keyframes, and writes the rendered egocentric map,
// plus watermarked copies of any supplied keyframe images.
package main

import (
	"flag"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/edaniels/golog"

	"go.viam.com/spatialmap"
	"go.viam.com/spatialmap/localization"
	"go.viam.com/spatialmap/rimage"
)

var logger = golog.NewDevelopmentLogger("mapview")

func main() {
	if err := realMain(); err != nil {
		logger.Fatal(err)
	}
}

func realMain() error {
	posesPath := flag.String("poses", "", "trajectory file: idx tx ty tz qx qy qz qw per line")
	keyframeArg := flag.String("keyframes", "", "comma separated pose indices to promote")
	imagesArg := flag.String("images", "", "comma separated keyframe image files, one per keyframe index")
	configPath := flag.String("config", "", "optional map config JSON")
	outPath := flag.String("out", "map.png", "output map image")
	outSize := flag.Int("out-size", 0, "resize the map to this side length, 0 keeps the render size")
	flag.Parse()

	if *posesPath == "" {
		return fmt.Errorf("-poses is required")
	}
	keyframeIndices, err := parseIndices(*keyframeArg)
	if err != nil {
		return err
	}

	cfg := spatialmap.DefaultMapConfig()
	if *configPath != "" {
		cfg, err = spatialmap.ReadMapConfigFromFile(*configPath)
		if err != nil {
			return err
		}
	}

	sc, err := spatialmap.NewSpatialContext(cfg, nil, logger)
	if err != nil {
		return err
	}

	replay, err := localization.NewReplayFromFile(*posesPath)
	if err != nil {
		return err
	}
	logger.Infof("loaded %d poses from %s", replay.Len(), *posesPath)

	promote := map[int]bool{}
	for _, idx := range keyframeIndices {
		promote[idx] = true
	}
	var promoted []int64
	for i := 0; i < replay.Len(); i++ {
		fix, err := replay.Update(nil, time.Duration(i)*time.Second/30)
		if err != nil {
			return err
		}
		if !fix.Ready {
			continue
		}
		id, err := sc.AddFrameWithPose(fix.Pose)
		if err != nil {
			return err
		}
		if promote[i] {
			if err := sc.PromoteToKeyframe(id); err != nil {
				return err
			}
			promoted = append(promoted, id)
			logger.Infof("promoted pose %d as keyframe %d", i, len(promoted))
		}
	}

	img, colors, err := sc.GenerateMap()
	if err != nil {
		return err
	}
	if *outSize > 0 {
		img = imaging.Resize(img, *outSize, *outSize, imaging.Lanczos)
	}
	if err := rimage.WriteImageToFile(*outPath, img); err != nil {
		return err
	}
	logger.Infof("wrote %s with %d keyframes", *outPath, len(colors))

	if *imagesArg == "" {
		return nil
	}
	paths := strings.Split(*imagesArg, ",")
	if len(paths) != len(promoted) {
		return fmt.Errorf("got %d keyframe images for %d keyframes", len(paths), len(promoted))
	}
	keyframes := make([]spatialmap.KeyframeImage, len(paths))
	for i, path := range paths {
		kfImg, err := rimage.ReadImageFromFile(strings.TrimSpace(path))
		if err != nil {
			return err
		}
		keyframes[i] = spatialmap.KeyframeImage{ID: promoted[i], Image: kfImg}
	}
	watermarked, err := spatialmap.WatermarkKeyframes(keyframes, colors)
	if err != nil {
		return err
	}
	outDir := filepath.Dir(*outPath)
	for i, wm := range watermarked {
		path := filepath.Join(outDir, fmt.Sprintf("keyframe_%02d.png", i+1))
		if err := rimage.WriteImageToFile(path, wm); err != nil {
			return err
		}
		logger.Infof("wrote %s", path)
	}
	return nil
}

func parseIndices(arg string) ([]int, error) {
	if arg == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(arg, ",") {
		idx, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("bad keyframe index %q: %w", part, err)
		}
		out = append(out, idx)
	}
	return out, nil
}
