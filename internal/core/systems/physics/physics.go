package physics

import "math"

// Point3 is a real-valued triple. The value methods return new points;
// the *InPlace methods mutate the receiver.
type Point3 struct {
	X float64 `json:"x" yaml:"x" toml:"x"`
	Y float64 `json:"y" yaml:"y" toml:"y"`
	Z float64 `json:"z" yaml:"z" toml:"z"`
}

// P3 is shorthand for building a Point3.
func P3(x, y, z float64) Point3 { return Point3{X: x, Y: y, Z: z} }

// Origin is the zero point.
var Origin = Point3{}

func Add(a, b Point3) Point3 { return Point3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }

func Sub(a, b Point3) Point3 { return Point3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }

func Scale(p Point3, c float64) Point3 { return Point3{p.X * c, p.Y * c, p.Z * c} }

func (p *Point3) AddInPlace(q Point3) {
	p.X += q.X
	p.Y += q.Y
	p.Z += q.Z
}

func (p *Point3) SubInPlace(q Point3) {
	p.X -= q.X
	p.Y -= q.Y
	p.Z -= q.Z
}

func (p *Point3) ScaleInPlace(c float64) {
	p.X *= c
	p.Y *= c
	p.Z *= c
}

// Distance computes the euclidean norm of a-b.
func Distance(a, b Point3) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Magnitude is the distance from the origin.
func Magnitude(p Point3) float64 { return Distance(p, Origin) }

// IsNear reports whether a and b are at most r apart.
func IsNear(a, b Point3, r float64) bool { return Distance(a, b) <= r }

// DropX projects p onto the x = 0 plane.
func DropX(p Point3) Point3 { return Point3{0, p.Y, p.Z} }

// Normalize returns p scaled to unit length. The zero point stays zero.
func Normalize(p Point3) Point3 {
	m := Magnitude(p)
	if m == 0 {
		return Point3{}
	}
	return Scale(p, 1/m)
}

// Finite reports whether no component is NaN or infinite.
func Finite(p Point3) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0) &&
		!math.IsNaN(p.Z) && !math.IsInf(p.Z, 0)
}
