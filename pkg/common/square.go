package common

// The 50 dark squares of the 10x10 board use the FMJD numbering:
// square 1 is the leftmost playable square of the top row (Black's side),
// square 50 the rightmost playable square of the bottom row (White's side).
// White men move toward row 0, Black men toward row 9.

const (
	SquareNone  = 0
	SquareCount = 50
)

const (
	DirNW = iota
	DirNE
	DirSW
	DirSE
	dirCount
)

func Row(sq int) int {
	return (sq - 1) / 5
}

func Col(sq int) int {
	var i = (sq - 1) % 5
	if Row(sq)&1 == 0 {
		return 2*i + 1
	}
	return 2 * i
}

func MakeSquareRC(row, col int) int {
	if row < 0 || row > 9 || col < 0 || col > 9 {
		return SquareNone
	}
	if (row+col)&1 == 0 {
		return SquareNone
	}
	return 5*row + col/2 + 1
}

var dirDelta = [dirCount][2]int{
	DirNW: {-1, -1},
	DirNE: {-1, +1},
	DirSW: {+1, -1},
	DirSE: {+1, +1},
}

var (
	neighborTable [SquareCount + 1][dirCount]int
	rayTable      [SquareCount + 1][dirCount][]int
)

// Neighbor returns the adjacent square in the given direction, or SquareNone.
func Neighbor(sq, dir int) int {
	return neighborTable[sq][dir]
}

// Ray returns the squares along a diagonal in the given direction,
// nearest first, up to the board edge.
func Ray(sq, dir int) []int {
	return rayTable[sq][dir]
}

// ForwardDirs returns the two forward diagonal directions for a man.
func ForwardDirs(side bool) [2]int {
	if side {
		return [2]int{DirNW, DirNE}
	}
	return [2]int{DirSW, DirSE}
}

// PromotionRow is the back row relative to the moving side.
func PromotionRow(side bool) int {
	if side {
		return 0
	}
	return 9
}

func AbsDelta(x, y int) int {
	if x > y {
		return x - y
	}
	return y - x
}

func Min(l, r int) int {
	if l < r {
		return l
	}
	return r
}

func Max(l, r int) int {
	if l > r {
		return l
	}
	return r
}

func init() {
	for sq := 1; sq <= SquareCount; sq++ {
		var row, col = Row(sq), Col(sq)
		for dir := 0; dir < dirCount; dir++ {
			var delta = dirDelta[dir]
			neighborTable[sq][dir] = MakeSquareRC(row+delta[0], col+delta[1])
			var ray []int
			for r, c := row+delta[0], col+delta[1]; ; r, c = r+delta[0], c+delta[1] {
				var next = MakeSquareRC(r, c)
				if next == SquareNone {
					break
				}
				ray = append(ray, next)
			}
			rayTable[sq][dir] = ray
		}
	}
}
