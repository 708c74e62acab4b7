package record

// Joined concatenates records left to right.
type Joined []Tabled

// Join concatenates the headers and fields of parts, in order.
func Join(parts ...Tabled) Joined {
	return Joined(parts)
}

func (j Joined) Headers() []string {
	var headers []string
	for _, p := range j {
		headers = append(headers, p.Headers()...)
	}
	return headers
}

func (j Joined) Fields() []string {
	var fields []string
	for _, p := range j {
		fields = append(fields, p.Fields()...)
	}
	return fields
}

// Tuple1 is a product of one record.
type Tuple1[A Tabled] struct {
	V1 A
}

func (t Tuple1[A]) Headers() []string { return Join(t.V1).Headers() }
func (t Tuple1[A]) Fields() []string  { return Join(t.V1).Fields() }

// Tuple2 is a product of two records.
type Tuple2[A, B Tabled] struct {
	V1 A
	V2 B
}

// Pair builds a Tuple2.
func Pair[A, B Tabled](a A, b B) Tuple2[A, B] {
	return Tuple2[A, B]{V1: a, V2: b}
}

func (t Tuple2[A, B]) Headers() []string { return Join(t.V1, t.V2).Headers() }
func (t Tuple2[A, B]) Fields() []string  { return Join(t.V1, t.V2).Fields() }

// Tuple3 is a product of three records.
type Tuple3[A, B, C Tabled] struct {
	V1 A
	V2 B
	V3 C
}

// Triple builds a Tuple3.
func Triple[A, B, C Tabled](a A, b B, c C) Tuple3[A, B, C] {
	return Tuple3[A, B, C]{V1: a, V2: b, V3: c}
}

func (t Tuple3[A, B, C]) Headers() []string { return Join(t.V1, t.V2, t.V3).Headers() }
func (t Tuple3[A, B, C]) Fields() []string  { return Join(t.V1, t.V2, t.V3).Fields() }

// Tuple4 is a product of four records.
type Tuple4[A, B, C, D Tabled] struct {
	V1 A
	V2 B
	V3 C
	V4 D
}

func (t Tuple4[A, B, C, D]) Headers() []string {
	return Join(t.V1, t.V2, t.V3, t.V4).Headers()
}

func (t Tuple4[A, B, C, D]) Fields() []string {
	return Join(t.V1, t.V2, t.V3, t.V4).Fields()
}

// Tuple5 is a product of five records.
type Tuple5[A, B, C, D, E Tabled] struct {
	V1 A
	V2 B
	V3 C
	V4 D
	V5 E
}

func (t Tuple5[A, B, C, D, E]) Headers() []string {
	return Join(t.V1, t.V2, t.V3, t.V4, t.V5).Headers()
}

func (t Tuple5[A, B, C, D, E]) Fields() []string {
	return Join(t.V1, t.V2, t.V3, t.V4, t.V5).Fields()
}

// Tuple6 is a product of six records.
type Tuple6[A, B, C, D, E, F Tabled] struct {
	V1 A
	V2 B
	V3 C
	V4 D
	V5 E
	V6 F
}

func (t Tuple6[A, B, C, D, E, F]) Headers() []string {
	return Join(t.V1, t.V2, t.V3, t.V4, t.V5, t.V6).Headers()
}

func (t Tuple6[A, B, C, D, E, F]) Fields() []string {
	return Join(t.V1, t.V2, t.V3, t.V4, t.V5, t.V6).Fields()
}
