package resources

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path"
	"strings"
	"sync"

	"github.com/npillmayer/schuko"
	"github.com/npillmayer/tyed/core"
	"github.com/npillmayer/tyed/core/font"
	"github.com/npillmayer/tyed/core/font/fontregistry"
	"github.com/npillmayer/tyed/engine/text"
)

func findFontConfigBinary(conf schuko.Configuration) (fcpath string, err error) {
	fcpath = conf.GetString("fontconfig")
	if fcpath == "" {
		tracer().Infof("fontconfig not configured: key 'fontconfig' should point location of 'fc-list' binary")
		return "", errors.New("fontconfig not configured")
	}
	if !path.IsAbs(fcpath) {
		return "", core.Error(core.EINVALID, "fontconfig binary fc-list must point to absolute path: %s", fcpath)
	}
	if fi, err := os.Stat(fcpath); err != nil || (fi.Mode().Perm()&0100) == 0 {
		return "", core.WrapError(err, core.EINVALID,
			"fontconfig configuration points to an invalid binary: %s", fcpath)
	}
	return fcpath, nil
}

func cacheFontConfigList(conf schuko.Configuration, update bool) (string, bool) {
	appkey := conf.GetString("app-key")
	tracer().Debugf("config[app-key] = %s", appkey)
	uconfdir, err := os.UserConfigDir()
	if appkey == "" || err != nil {
		tracer().Errorf("user config directory not set")
		return "", false
	}
	fcListFilename := path.Join(uconfdir, appkey, "fontlist.txt")
	if _, err := os.Stat(fcListFilename); err == nil {
		// fontlist already exists
		if !update {
			return fcListFilename, true
		}
	} else { // create config sub-dir for this application
		dir := path.Join(uconfdir, appkey)
		if _, err = os.Stat(dir); os.IsNotExist(err) {
			err = os.MkdirAll(dir, 0755)
			if err != nil {
				err = core.WrapError(err, core.EINVALID,
					"user configuration path cannot be created: %s", dir)
				core.UserError(err)
				return "", false
			}
		}
	}
	fcpath, err := findFontConfigBinary(conf)
	if err != nil {
		core.UserError(err)
		return "", false
	}
	fontlistFile, err := os.Create(fcListFilename)
	if err == nil {
		defer fontlistFile.Close()
		fccmd := exec.Command(fcpath)
		fccmd.Stdout = fontlistFile
		err = fccmd.Run()
	}
	if err != nil {
		err = core.WrapError(err, core.EINVALID,
			"fontconfig output file cannot be created: %s", fcListFilename)
		core.UserError(err)
		return "", false
	}
	return fcListFilename, true
}

func loadFontConfigList(conf schuko.Configuration) ([]font.Descriptor, bool) {
	fclist, ok := cacheFontConfigList(conf, false)
	if !ok {
		return []font.Descriptor{}, false
	}
	fc, err := os.Open(fclist)
	if err != nil {
		err = core.WrapIOError(err, fclist)
		core.UserError(err)
		return []font.Descriptor{}, false
	}
	defer fc.Close()
	descs, err := parseFontConfigList(bufio.NewScanner(fc))
	if err != nil {
		err = core.WrapError(err, core.EIO,
			"encountered a problem during reading of fontconfig font list: %s", fclist)
		core.UserError(err)
		return descs, false
	}
	return descs, true
}

// parseFontConfigList reads lines of fc-list output, formatted as
//
//    /path/to/font.ttf: Family Name:style=Bold Italic
//
func parseFontConfigList(scanner *bufio.Scanner) ([]font.Descriptor, error) {
	var descs []font.Descriptor
	ttc := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, ":")
		if len(fields) < 3 {
			continue
		}
		fontpath := strings.TrimSpace(fields[0])
		fontname := strings.TrimSpace(fields[1])
		fontname = strings.TrimPrefix(fontname, ".")
		if comma := strings.Index(fontname, ","); comma > 0 {
			fontname = fontname[:comma]
		}
		fontvari := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(fields[2]), "style="))
		if strings.HasSuffix(fontpath, ".ttc") {
			ttc++
			continue
		}
		desc := font.Descriptor{
			Family: fontname,
			Path:   fontpath,
		}
		if comma := strings.Index(fontvari, ","); comma > 0 {
			fontvari = fontvari[:comma]
		}
		desc.Variants = []string{fontvari}
		descs = append(descs, desc)
	}
	if ttc > 0 {
		tracer().Infof("skipping %d platform fonts: TTC not yet supported", ttc)
	}
	return descs, scanner.Err()
}

var loadFontConfigListTask sync.Once
var loadedFontConfigListOK bool
var fontConfigDescriptors []font.Descriptor

// findFontConfigFont searches for a locally installed font variant using the fontconfig
// system (https://www.freedesktop.org/wiki/Software/fontconfig/).
// fontconfig has to be configured in the global application configuration by
// setting the absolute path of the 'fc-list' binary.
//
// findFontConfigFont will copy the output of fc-list to the user's config
// directory once. Subsequent calls will use the cached entries to search for
// a font, given a name pattern and a style.
//
// We call the binary instead of using the C library because of possible version
// issues. If fontconfig is not configured, findFontConfigFont will silently return an
// empty font descriptor and an empty variant name.
func findFontConfigFont(conf schuko.Configuration, pattern string, style text.Style) (
	desc font.Descriptor, variant string) {
	//
	loadFontConfigListTask.Do(func() {
		fontConfigDescriptors, loadedFontConfigListOK = loadFontConfigList(conf)
		tracer().Infof("loaded fontconfig list")
	})
	if !loadedFontConfigListOK {
		return
	}
	var confidence fontregistry.MatchConfidence
	desc, variant, confidence = fontregistry.ClosestMatch(fontConfigDescriptors, pattern, style)
	tracer().Debugf("closest fontconfig match confidence for %s|%s= %d", desc.Family, variant, confidence)
	if confidence > fontregistry.LowConfidence {
		return
	}
	return font.Descriptor{}, ""
}

// fontConfigFontsForChar asks fontconfig for font files covering r.
func fontConfigFontsForChar(ctx context.Context, conf schuko.Configuration, r rune) ([]string, error) {
	fcpath, err := findFontConfigBinary(conf)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	fccmd := exec.CommandContext(ctx, fcpath, fmt.Sprintf(":charset=%x", r), "file")
	fccmd.Stdout = &out
	if err = fccmd.Run(); err != nil {
		return nil, core.WrapError(err, core.EIO, "fontconfig query for %#U failed", r)
	}
	return parseFontConfigFiles(&out), nil
}

// parseFontConfigFiles reads the output of 'fc-list <pattern> file', which
// is one path per line, terminated by a colon.
func parseFontConfigFiles(out *bytes.Buffer) []string {
	var paths []string
	scanner := bufio.NewScanner(out)
	for scanner.Scan() {
		line := strings.TrimSuffix(strings.TrimSpace(scanner.Text()), ":")
		if line == "" || strings.HasSuffix(line, ".ttc") {
			continue
		}
		paths = append(paths, line)
	}
	return paths
}
