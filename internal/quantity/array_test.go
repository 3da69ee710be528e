package quantity_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ufloat/internal/ndarray"
	"github.com/san-kum/ufloat/internal/quantity"
	"github.com/san-kum/ufloat/internal/ufunc"
	"github.com/san-kum/ufloat/internal/units"
)

var _ = Describe("Array", func() {
	var (
		m = units.Of("m")
		s = units.Of("s")
	)

	Describe("construction", func() {
		It("degrades short inputs", func() {
			Expect(quantity.Make([]float64{2}, m)).To(BeAssignableToTypeOf(quantity.Scalar{}))
			Expect(quantity.Make([]float64{2}, units.Dimensionless)).To(Equal(quantity.Number(2)))
			Expect(quantity.Make([]float64{2}, m, quantity.Undegraded())).To(BeAssignableToTypeOf(&quantity.Array{}))
		})

		It("checks an existing unit", func() {
			a := quantity.FromValues([]float64{1, 2}, m)
			_, err := quantity.Make(a, s)
			Expect(err).To(MatchError(units.ErrIncompatibleUnits))

			v, err := quantity.Make(a, s, quantity.WithOverride())
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(HaveSymbol("s"))
			Expect(a.Symbol()).To(Equal("m"))
		})

		It("wraps a plain slice", func() {
			v, err := quantity.Make([]float64{1, 2, 3}, m)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.String()).To(Equal("[1 2 3] [m]"))
		})

		It("spaces values evenly", func() {
			a, err := quantity.Linspace(quantity.New(0, s), quantity.New(1, s), 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Values()).To(Equal([]float64{0, 0.25, 0.5, 0.75, 1}))
			Expect(a.Symbol()).To(Equal("s"))

			_, err = quantity.Linspace(quantity.New(0, s), quantity.New(1, m), 5)
			Expect(err).To(MatchError(units.ErrIncompatibleUnits))
		})
	})

	Describe("arithmetic", func() {
		var a *quantity.Array

		BeforeEach(func() {
			a = quantity.FromValues([]float64{1, 2, 3}, m)
		})

		It("multiplies by a scalar quantity", func() {
			v, err := a.Mul(quantity.New(2, s))
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Values()).To(Equal([]float64{2, 4, 6}))
			Expect(v.Symbol()).To(Equal("m s"))
		})

		It("broadcasts against another array", func() {
			b := quantity.NewArray(ndarray.MustNew([]float64{1, 10}, 2, 1), units.Dimensionless)
			v, err := a.Mul(b)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Shape()).To(Equal([]int{2, 3}))
			Expect(v.Values()).To(Equal([]float64{1, 2, 3, 10, 20, 30}))
		})

		It("keeps a plain array when units cancel", func() {
			v, err := a.Div(a)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Unit().IsDimensionless()).To(BeTrue())
			Expect(v.Values()).To(Equal([]float64{1, 1, 1}))
		})

		It("rejects addition across units", func() {
			_, err := a.Add(quantity.FromValues([]float64{1, 1, 1}, s))
			Expect(err).To(MatchError(units.ErrIncompatibleUnits))
			_, err = a.Mod(quantity.Number(2))
			Expect(err).To(MatchError(units.ErrIncompatibleUnits))
		})

		It("adds a scalar of the same unit", func() {
			v, err := a.Add(quantity.New(1, m))
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Values()).To(Equal([]float64{2, 3, 4}))
		})

		It("requires a uniform exponent", func() {
			x := quantity.FromValues([]float64{2, 3}, s)
			_, err := x.Pow(quantity.FromValues([]float64{1, 2}, units.Dimensionless))
			Expect(err).To(MatchError(units.ErrNonUniformPower))

			v, err := x.Pow(quantity.FromValues([]float64{2, 2}, units.Dimensionless))
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Symbol()).To(Equal("s**2"))
			Expect(v.Values()).To(Equal([]float64{4, 9}))
		})

		It("fails on shapes that do not broadcast", func() {
			_, err := a.Add(quantity.FromValues([]float64{1, 2}, m))
			Expect(err).To(MatchError(ndarray.ErrBroadcast))
		})

		It("applies unary operations", func() {
			v, err := quantity.Unary(ufunc.Square, a)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(HaveSymbol("m**2"))

			_, err = quantity.Unary(ufunc.Exp, a)
			Expect(err).To(MatchError(units.ErrNotDimensionless))
		})

		It("updates in place", func() {
			Expect(a.IMul(quantity.New(2, s))).To(Succeed())
			Expect(a.Symbol()).To(Equal("m s"))
			Expect(a.Values()).To(Equal([]float64{2, 4, 6}))

			Expect(a.IAdd(quantity.New(1, units.MustParse("m s")))).To(Succeed())
			Expect(a.Values()).To(Equal([]float64{3, 5, 7}))

			Expect(a.ISub(quantity.New(1, m))).To(MatchError(units.ErrIncompatibleUnits))
		})
	})

	Describe("views", func() {
		var (
			base *quantity.Array
			view *quantity.Array
		)

		BeforeEach(func() {
			base = quantity.FromValues([]float64{1, 2, 3}, m)
			var err error
			view, err = base.Slice(ndarray.Span(0, 2))
			Expect(err).NotTo(HaveOccurred())
		})

		It("shares storage with the owner", func() {
			Expect(view.IsView()).To(BeTrue())
			Expect(view.Owner()).To(BeIdenticalTo(base))
			Expect(base.IsView()).To(BeFalse())
		})

		It("accepts dimensionless in-place multiplication", func() {
			Expect(view.IMul(quantity.Number(2))).To(Succeed())
			Expect(base.Values()).To(Equal([]float64{2, 4, 3}))
			Expect(view.Symbol()).To(Equal("m"))
		})

		It("rejects in-place operations that change its unit", func() {
			Expect(view.IMul(quantity.New(2, m))).To(MatchError(units.ErrViewMutation))
			Expect(view.IDiv(quantity.FromValues([]float64{1, 1}, s))).To(MatchError(units.ErrViewMutation))
			Expect(base.Values()).To(Equal([]float64{1, 2, 3}))
		})

		It("only accepts exponent one in place", func() {
			Expect(view.IPow(quantity.Number(1))).To(Succeed())
			Expect(view.IPow(quantity.Number(2))).To(MatchError(units.ErrViewMutation))
			Expect(view.IPow(quantity.FromValues([]float64{1, 2}, units.Dimensionless))).To(MatchError(units.ErrNonUniformPower))
		})

		It("lets the owner change its unit", func() {
			Expect(base.IPow(quantity.Number(2))).To(Succeed())
			Expect(base.Symbol()).To(Equal("m**2"))
			Expect(base.Values()).To(Equal([]float64{1, 4, 9}))
		})

		It("tags views of views with the root owner", func() {
			inner, err := view.Slice(ndarray.Span(1, 2))
			Expect(err).NotTo(HaveOccurred())
			Expect(inner.Owner()).To(BeIdenticalTo(base))
		})

		It("rejects in-place powers on a dimensionless view", func() {
			plain := quantity.FromValues([]float64{2, 3, 4}, units.Dimensionless)
			head, err := plain.Slice(ndarray.Span(0, 2))
			Expect(err).NotTo(HaveOccurred())
			Expect(head.IPow(quantity.Number(2))).To(MatchError(units.ErrViewMutation))
			Expect(head.IPow(quantity.Number(1))).To(Succeed())
			Expect(plain.Values()).To(Equal([]float64{2, 3, 4}))
		})

		It("protects views made by Reshape", func() {
			grid, err := base.Reshape(3, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(grid.IsView()).To(BeTrue())
			Expect(grid.IMul(quantity.New(2, s))).To(MatchError(units.ErrViewMutation))
			Expect(base.Values()).To(Equal([]float64{1, 2, 3}))
		})

		It("protects rows taken by Index", func() {
			a := quantity.NewArray(ndarray.MustNew([]float64{1, 2, 3, 4}, 2, 2), m)
			row, err := a.Index(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(row.(*quantity.Array).IMul(quantity.New(2, s))).To(MatchError(units.ErrViewMutation))
			Expect(a.Values()).To(Equal([]float64{1, 2, 3, 4}))
		})

		It("refuses to fill a view with another unit", func() {
			Expect(view.Fill(quantity.New(7, s))).To(MatchError(units.ErrViewMutation))
			Expect(view.Fill(quantity.New(7, m))).To(Succeed())
			Expect(base.Values()).To(Equal([]float64{7, 7, 3}))
		})
	})

	Describe("indexing", func() {
		It("returns a scalar from a one-dimensional array", func() {
			a := quantity.FromValues([]float64{4, 5}, s)
			v, err := a.Index(-1)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.(quantity.Scalar).Eq(quantity.New(5, s))).To(BeTrue())
		})

		It("returns a row view from a matrix", func() {
			a := quantity.NewArray(ndarray.MustNew([]float64{1, 2, 3, 4}, 2, 2), s)
			row, err := a.Index(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(row.(*quantity.Array).IsView()).To(BeTrue())
			Expect(row.(*quantity.Array).Values()).To(Equal([]float64{3, 4}))
		})

		It("checks units on assignment", func() {
			a := quantity.FromValues([]float64{0, 0, 0}, m)
			Expect(a.Set(quantity.New(1, m), ndarray.Span(1, 3))).To(Succeed())
			Expect(a.Values()).To(Equal([]float64{0, 1, 1}))
			Expect(a.Set(quantity.New(1, s))).To(MatchError(units.ErrIncompatibleUnits))
			Expect(a.SetAt(quantity.New(9, m), 0)).To(Succeed())
			Expect(a.SetAt(quantity.Number(9), 0)).To(MatchError(units.ErrIncompatibleUnits))
		})

		It("puts values of the same unit", func() {
			a := quantity.FromValues([]float64{0, 0, 0}, m)
			Expect(a.Put([]int{0, 2}, quantity.FromValues([]float64{5, 6}, m))).To(Succeed())
			Expect(a.Values()).To(Equal([]float64{5, 0, 6}))
			Expect(a.Put([]int{1}, quantity.FromValues([]float64{1}, s))).To(MatchError(units.ErrIncompatibleUnits))
			Expect(a.Put([]int{1}, quantity.New(1, m))).To(HaveOccurred())
		})

		It("lists elements as quantities", func() {
			a := quantity.NewArray(ndarray.MustNew([]float64{1, 2}, 1, 2), s)
			rows := a.ToList().([]any)
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].([]any)[1].(quantity.Scalar).Eq(quantity.New(2, s))).To(BeTrue())
		})
	})

	Describe("comparison", func() {
		a := quantity.FromValues([]float64{1, 2, 3}, m)

		It("compares element-wise", func() {
			mask, err := a.Lt(quantity.New(2, m))
			Expect(err).NotTo(HaveOccurred())
			Expect(mask.Values()).To(Equal([]bool{true, false, false}))
		})

		It("is total for equality across units", func() {
			eq, err := a.Eq(quantity.New(2, s))
			Expect(err).NotTo(HaveOccurred())
			Expect(eq.Values()).To(Equal([]bool{false, false, false}))

			ne, err := a.Ne(quantity.Number(2))
			Expect(err).NotTo(HaveOccurred())
			Expect(ne.Values()).To(Equal([]bool{true, true, true}))
		})

		It("fails ordering across units", func() {
			_, err := a.Ge(quantity.New(2, s))
			Expect(err).To(MatchError(units.ErrIncompatibleUnits))
		})
	})

	Describe("reductions", func() {
		a := quantity.FromValues([]float64{1, 2, 3}, m)

		It("keeps the unit for sum, mean and extremes", func() {
			Expect(a.Sum()).To(HaveSymbol("m"))
			Expect(a.Sum().(quantity.Scalar).Value()).To(Equal(6.0))
			Expect(a.Mean()).To(HaveSymbol("m"))
			Expect(a.Std()).To(HaveSymbol("m"))
			Expect(a.Max()).To(HaveSymbol("m"))
			Expect(a.Ptp()).To(HaveSymbol("m"))
		})

		It("squares the unit for var", func() {
			v := a.Var()
			Expect(v).To(HaveSymbol("m**2"))
			Expect(v.(quantity.Scalar).Value()).To(BeNumerically("~", 2.0/3.0, 1e-12))
		})

		It("raises the unit to the element count for prod", func() {
			Expect(a.Prod()).To(HaveSymbol("m**3"))

			mat := quantity.NewArray(ndarray.MustNew([]float64{1, 2, 3, 4, 5, 6}, 2, 3), m)
			rows, err := mat.ProdAxis(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows.Symbol()).To(Equal("m**3"))
			Expect(rows.Values()).To(Equal([]float64{6, 120}))

			cols, err := mat.ProdAxis(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(cols.Symbol()).To(Equal("m**2"))
		})

		It("rejects cumprod with a unit", func() {
			_, err := a.CumProd()
			Expect(err).To(MatchError(units.ErrNotDimensionless))

			plain := quantity.FromValues([]float64{1, 2, 3}, units.Dimensionless)
			c, err := plain.CumProd()
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Values()).To(Equal([]float64{1, 2, 6}))
		})

		It("reduces along an axis", func() {
			mat := quantity.NewArray(ndarray.MustNew([]float64{1, 2, 3, 4}, 2, 2), s)
			sum, err := mat.SumAxis(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(sum.Values()).To(Equal([]float64{4, 6}))
			Expect(sum.Symbol()).To(Equal("s"))

			v, err := mat.VarAxis(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Symbol()).To(Equal("s**2"))
			Expect(v.Values()).To(Equal([]float64{0.25, 0.25}))

			tr, err := mat.Trace(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(tr.(quantity.Scalar).Eq(quantity.New(5, s))).To(BeTrue())

			_, err = mat.MinAxis(2)
			Expect(err).To(MatchError(ndarray.ErrAxis))
		})

		It("clips with unit-bearing bounds", func() {
			c, err := a.Clip(quantity.New(1.5, m), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Values()).To(Equal([]float64{1.5, 2, 3}))

			_, err = a.Clip(nil, quantity.Number(2))
			Expect(err).To(MatchError(units.ErrIncompatibleUnits))
			_, err = a.Clip(nil, nil)
			Expect(err).To(HaveOccurred())
		})

		It("searches with unit-bearing values", func() {
			idx, err := a.SearchSorted(quantity.FromValues([]float64{2.5}, m), false)
			Expect(err).NotTo(HaveOccurred())
			Expect(idx).To(Equal([]int{2}))

			_, err = a.SearchSorted(quantity.Number(2), false)
			Expect(err).To(MatchError(units.ErrIncompatibleUnits))
		})

		It("keeps the unit when rounding", func() {
			r := quantity.FromValues([]float64{1.26, 2.5}, m).Round(1)
			Expect(r.Symbol()).To(Equal("m"))
			Expect(r.Values()).To(Equal([]float64{1.3, 2.5}))
		})
	})
})
