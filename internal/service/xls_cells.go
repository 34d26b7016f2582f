package service

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"unicode/utf16"

	"github.com/extrame/ole2"
)

// BIFF record ids
const (
	biffFormula    = 0x0006
	biffEOF        = 0x000A
	biffBoundSheet = 0x0085
	biffMulRK      = 0x00BD
	biffMulBlank   = 0x00BE
	biffLabelSST   = 0x00FD
	biffBlank      = 0x0201
	biffNumber     = 0x0203
	biffLabel      = 0x0204
	biffBoolErr    = 0x0205
	biffString     = 0x0207
	biffRK         = 0x027E
	biffBOF        = 0x0809

	biff8Version = 0x0600
)

type cellRef struct {
	row, col uint16
}

// xlsCells is what the cell records of one worksheet substream say about
// the sheet: the typed value of every numeric, boolean and formula cell and
// the column extent of every row that has a cell record at all.
//
// The xls decoder only hands back display strings, and for date and
// custom formats those lose the serial (a month-only "2006.01" or an
// RFC3339 stamp). Overlaying these values keeps .xls uploads on the same
// raw-value footing as xlsx.
type xlsCells struct {
	values map[cellRef]string
	width  map[uint16]int
	maxRow int
}

func newXLSCells() *xlsCells {
	return &xlsCells{
		values: make(map[cellRef]string),
		width:  make(map[uint16]int),
		maxRow: -1,
	}
}

func (x *xlsCells) touch(row, col uint16) {
	if w := int(col) + 1; w > x.width[row] {
		x.width[row] = w
	}
	if int(row) > x.maxRow {
		x.maxRow = int(row)
	}
}

func (x *xlsCells) set(ref cellRef, value string) {
	x.values[ref] = value
	x.touch(ref.row, ref.col)
}

// workbookStream pulls the Workbook (or BIFF5 Book) stream out of the
// compound document.
func workbookStream(data []byte) ([]byte, error) {
	doc, err := ole2.Open(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open compound document: %w", err)
	}
	dir, err := doc.ListDir()
	if err != nil {
		return nil, fmt.Errorf("list compound document: %w", err)
	}

	var book, root *ole2.File
	for _, f := range dir {
		switch f.Name() {
		case "Workbook", "Book":
			// the last match, as the xls decoder picks it
			book = f
		case "Root Entry":
			root = f
		}
	}
	if book == nil {
		return nil, errors.New("no workbook stream")
	}

	if int64(book.Size) > int64(len(data)) {
		return nil, fmt.Errorf("workbook stream size %d exceeds file size", book.Size)
	}

	// one read of the declared size follows the sector chain in whole sectors
	stream := make([]byte, book.Size)
	n, err := io.ReadFull(doc.OpenFile(book, root), stream)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("read workbook stream: %w", err)
	}
	return stream[:n], nil
}

func nextRecord(stream []byte, pos int) (id uint16, body []byte, next int, ok bool) {
	if pos < 0 || pos+4 > len(stream) {
		return 0, nil, pos, false
	}
	id = binary.LittleEndian.Uint16(stream[pos:])
	end := pos + 4 + int(binary.LittleEndian.Uint16(stream[pos+2:]))
	if end > len(stream) {
		return 0, nil, pos, false
	}
	return id, stream[pos+4 : end], end, true
}

// sheetOffsets lists the substream offset of every BOUNDSHEET record in the
// workbook globals, in sheet order.
func sheetOffsets(stream []byte) ([]int, error) {
	id, _, pos, ok := nextRecord(stream, 0)
	if !ok || id != biffBOF {
		return nil, errors.New("workbook globals do not start with BOF")
	}

	var offsets []int
	for {
		id, body, next, ok := nextRecord(stream, pos)
		if !ok || id == biffEOF {
			return offsets, nil
		}
		pos = next
		if id == biffBoundSheet && len(body) >= 4 {
			offsets = append(offsets, int(binary.LittleEndian.Uint32(body)))
		}
	}
}

// scanXLSCells walks the worksheet substream starting at offset.
func scanXLSCells(stream []byte, offset int) (*xlsCells, error) {
	id, bof, pos, ok := nextRecord(stream, offset)
	if !ok || id != biffBOF {
		return nil, fmt.Errorf("no worksheet BOF at offset %d", offset)
	}
	biff8 := len(bof) >= 2 && binary.LittleEndian.Uint16(bof) == biff8Version

	cells := newXLSCells()
	var (
		pending      cellRef
		expectString bool
	)
	for {
		id, body, next, ok := nextRecord(stream, pos)
		if !ok {
			// truncated substream, keep what was read
			return cells, nil
		}
		pos = next

		switch id {
		case biffEOF:
			return cells, nil
		case biffNumber:
			if len(body) >= 14 {
				v := math.Float64frombits(binary.LittleEndian.Uint64(body[6:]))
				cells.set(cellAt(body), formatRaw(v))
			}
		case biffRK:
			if len(body) >= 10 {
				cells.set(cellAt(body), formatRaw(decodeRK(binary.LittleEndian.Uint32(body[6:]))))
			}
		case biffMulRK:
			if len(body) < 6 {
				continue
			}
			ref := cellAt(body)
			for i := 0; i < (len(body)-6)/6; i++ {
				rk := binary.LittleEndian.Uint32(body[4+i*6+2:])
				cells.set(cellRef{ref.row, ref.col + uint16(i)}, formatRaw(decodeRK(rk)))
			}
		case biffFormula:
			if len(body) < 14 {
				continue
			}
			ref := cellAt(body)
			result := body[6:14]
			if result[6] != 0xFF || result[7] != 0xFF {
				cells.set(ref, formatRaw(math.Float64frombits(binary.LittleEndian.Uint64(result))))
				continue
			}
			switch result[0] {
			case 0:
				// the text follows in a STRING record
				pending, expectString = ref, true
				cells.set(ref, "")
			case 1:
				cells.set(ref, formatBool(result[2]))
			default:
				cells.set(ref, "")
			}
		case biffString:
			if expectString {
				cells.values[pending] = decodeXLString(body, biff8)
				expectString = false
			}
		case biffBoolErr:
			if len(body) < 8 {
				continue
			}
			if body[7] == 0 {
				cells.set(cellAt(body), formatBool(body[6]))
			} else {
				cells.set(cellAt(body), "")
			}
		case biffLabel, biffLabelSST, biffBlank:
			if len(body) >= 4 {
				ref := cellAt(body)
				cells.touch(ref.row, ref.col)
			}
		case biffMulBlank:
			if len(body) >= 6 {
				cells.touch(cellAt(body).row, binary.LittleEndian.Uint16(body[len(body)-2:]))
			}
		}
	}
}

func cellAt(body []byte) cellRef {
	return cellRef{
		row: binary.LittleEndian.Uint16(body),
		col: binary.LittleEndian.Uint16(body[2:]),
	}
}

// decodeRK unpacks the 30-bit RK number encoding.
func decodeRK(rk uint32) float64 {
	var v float64
	if rk&0x02 != 0 {
		v = float64(int32(rk) >> 2)
	} else {
		v = math.Float64frombits(uint64(rk&^0x03) << 32)
	}
	if rk&0x01 != 0 {
		v /= 100
	}
	return v
}

func decodeXLString(body []byte, biff8 bool) string {
	if len(body) < 2 {
		return ""
	}
	n := int(binary.LittleEndian.Uint16(body))
	body = body[2:]
	if biff8 {
		if len(body) < 1 {
			return ""
		}
		wide := body[0]&0x01 != 0
		body = body[1:]
		if wide {
			units := make([]uint16, 0, n)
			for i := 0; i < n && 2*i+1 < len(body); i++ {
				units = append(units, binary.LittleEndian.Uint16(body[2*i:]))
			}
			return string(utf16.Decode(units))
		}
	}
	if n > len(body) {
		n = len(body)
	}
	runes := make([]rune, n)
	for i, b := range body[:n] {
		runes[i] = rune(b)
	}
	return string(runes)
}

// formatRaw renders a number the way xlsx raw cell values are written.
func formatRaw(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatBool(b byte) string {
	if b != 0 {
		return "TRUE"
	}
	return "FALSE"
}
