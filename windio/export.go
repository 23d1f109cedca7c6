package windio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/udawtr/windcorr-go/windcorr"
)

// CSV形式
// 列の並びは windcorr.Columns。欠測は空欄で出力します。
func ToCSV(w io.Writer, ser *windcorr.Series) error {
	buf := bufio.NewWriter(w)

	buf.WriteString(strings.Join(windcorr.Columns, ","))
	buf.WriteString("\n")

	writeFloat := func(v float64) {
		buf.WriteString(",")
		if windcorr.IsNoData(v) {
			return
		}
		buf.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
	}
	for i := 0; i < ser.Len(); i++ {
		buf.WriteString(ser.Timestamp[i].Format("2006-01-02 15:04:05.000"))
		for _, name := range windcorr.Columns[1 : len(windcorr.Columns)-1] {
			col, _ := ser.Column(name)
			writeFloat(col[i])
		}
		buf.WriteString(",")
		buf.WriteString(ser.Flags[i].String())
		buf.WriteString("\n")
	}
	return buf.Flush()
}

// SaveCSV は ser をファイル path に保存します。拡張子が .gz の場合は gzip 圧縮します。
func SaveCSV(path string, ser *windcorr.Series) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	if !strings.HasSuffix(path, ".gz") {
		return ToCSV(f, ser)
	}

	gw := gzip.NewWriter(f)
	if err := ToCSV(gw, ser); err != nil {
		gw.Close()
		return err
	}
	return gw.Close()
}
