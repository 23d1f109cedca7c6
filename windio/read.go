package windio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hhkbp2/go-logging"
	"github.com/klauspost/compress/gzip"

	"github.com/udawtr/windcorr-go/windcorr"
)

// 入力列名
const (
	ColP = "P" // 気圧 [Pa]
	ColT = "T" // 気温 [℃]
)

// 時刻の書式 (先頭から順に試す)
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	time.RFC3339Nano,
}

// LoadAndIndex は LoadAll の読み込み結果です。
type LoadAndIndex struct {
	Index   int
	Path    string
	Samples []windcorr.Sample
	Err     error
}

// LoadAll は複数のファイルを並行して読み込み、paths と同じ順序で返します。
// 1つでも失敗した場合は最初のエラーを返します。
func LoadAll(paths []string) ([][]windcorr.Sample, error) {
	logger := logging.GetLogger("windcorr")

	res := make([][]windcorr.Sample, len(paths))
	c := make(chan LoadAndIndex, 4)
	for index, path := range paths {
		go func(index int, path string) {
			samples, err := LoadSamples(path)
			c <- LoadAndIndex{Index: index, Path: path, Samples: samples, Err: err}
		}(index, path)
	}

	var firstErr error
	for i := 0; i < len(paths); i++ {
		ret := <-c
		if ret.Err != nil {
			if firstErr == nil {
				firstErr = ret.Err
			}
			continue
		}
		res[ret.Index] = ret.Samples
		logger.Infof("読み込み完了 %s (%d 行)", ret.Path, len(ret.Samples))
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return res, nil
}

// LoadSamples はファイル path (CSV または .csv.gz) からサンプルを読み込みます。
func LoadSamples(path string) ([]windcorr.Sample, error) {
	logger := logging.GetLogger("windcorr")
	logger.Debugf("ファイル読み込み: %s", path)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gf, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream %s: %w", path, err)
		}
		defer gf.Close()
		r = gf
	}

	samples, err := ReadSamples(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return samples, nil
}

// ReadSamples はヘッダ付き CSV からサンプルを読み込みます。
// 列は名前で参照し、存在しない列や空欄・"nan" は NoData になります。
// Timestamp 列は必須です。
func ReadSamples(r io.Reader) ([]windcorr.Sample, error) {
	csvReader := csv.NewReader(r)
	csvReader.ReuseRecord = true
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := map[string]int{}
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	tsCol, ok := index[windcorr.ColTimestamp]
	if !ok {
		return nil, fmt.Errorf("column %q not found", windcorr.ColTimestamp)
	}

	var samples []windcorr.Sample
	for line := 2; ; line++ {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		ts, err := parseTime(row[tsCol])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		get := func(name string) (float64, error) {
			i, ok := index[name]
			if !ok || i >= len(row) {
				return windcorr.NoData, nil
			}
			return parseFloat(row[i])
		}

		s := windcorr.NewSample(ts)
		fields := []struct {
			name string
			dst  *float64
		}{
			{windcorr.ColVx, &s.Vx},
			{windcorr.ColVy, &s.Vy},
			{windcorr.ColPhi, &s.Phi},
			{windcorr.ColUm, &s.Um},
			{windcorr.ColVm, &s.Vm},
			{windcorr.ColWm, &s.Wm},
			{windcorr.ColU, &s.U},
			{windcorr.ColV, &s.V},
			{windcorr.ColSts, &s.Sts},
			{ColP, &s.P},
			{ColT, &s.T},
		}
		for _, fld := range fields {
			v, err := get(fld.name)
			if err != nil {
				return nil, fmt.Errorf("line %d column %s: %w", line, fld.name, err)
			}
			*fld.dst = v
		}
		samples = append(samples, s)
	}
	return samples, nil
}

func parseFloat(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	switch strings.ToLower(cell) {
	case "", "nan", "na", "null":
		return windcorr.NoData, nil
	}
	return strconv.ParseFloat(cell, 64)
}

func parseTime(cell string) (time.Time, error) {
	cell = strings.TrimSpace(cell)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t, nil
		}
	}
	// UNIX 時刻 [s]
	if sec, err := strconv.ParseFloat(cell, 64); err == nil {
		whole := int64(sec)
		return time.Unix(whole, int64((sec-float64(whole))*1e9)).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", cell)
}
