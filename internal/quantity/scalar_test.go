package quantity_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/types"

	"github.com/san-kum/ufloat/internal/quantity"
	"github.com/san-kum/ufloat/internal/ufunc"
	"github.com/san-kum/ufloat/internal/units"
)

var (
	second = quantity.New(1, units.Of("s"))
	meter  = quantity.New(1, units.Of("m"))
)

// HaveSymbol matches a value whose formatted unit is sym.
func HaveSymbol(sym string) types.GomegaMatcher {
	return WithTransform(func(v quantity.Value) string { return units.Format(v.Unit()) }, Equal(sym))
}

func mustValue(v quantity.Value, err error) quantity.Value {
	GinkgoHelper()
	Expect(err).NotTo(HaveOccurred())
	return v
}

var _ = Describe("Scalar", func() {
	Describe("multiplication", func() {
		It("scales a unit by a plain number", func() {
			v := mustValue(quantity.Mul(quantity.Number(5), second))
			Expect(v).To(BeAssignableToTypeOf(quantity.Scalar{}))
			Expect(v.(quantity.Scalar).Eq(quantity.New(5, units.Of("s")))).To(BeTrue())
		})

		It("adds exponents", func() {
			v := mustValue(second.Mul(second))
			Expect(v).To(HaveSymbol("s**2"))
			Expect(v.(quantity.Scalar).Value()).To(Equal(1.0))
		})

		It("degrades to a plain number when units cancel", func() {
			v := mustValue(second.Div(second))
			Expect(v).To(Equal(quantity.Number(1)))

			v = mustValue(quantity.New(6, units.MustParse("m / s")).Mul(quantity.New(2, units.Of("s"))))
			Expect(v).To(HaveSymbol("m"))
		})

		It("keeps the unit when dividing by zero", func() {
			v := mustValue(meter.Div(quantity.New(0, units.Of("s"))))
			Expect(v).To(HaveSymbol("m / s"))
			Expect(math.IsInf(v.(quantity.Scalar).Value(), 1)).To(BeTrue())
		})
	})

	Describe("addition", func() {
		It("requires equal units", func() {
			_, err := quantity.New(5, units.Of("s")).Add(quantity.New(3, units.Of("m")))
			Expect(err).To(MatchError(units.ErrIncompatibleUnits))

			var ue *units.IncompatibleUnitError
			Expect(err).To(BeAssignableToTypeOf(ue))
			Expect(err.Error()).To(ContainSubstring("[s] and [m]"))
		})

		It("keeps the shared unit", func() {
			v := mustValue(quantity.New(5, units.Of("s")).Sub(quantity.New(3, units.Of("s"))))
			Expect(v.(quantity.Scalar).Eq(quantity.New(2, units.Of("s")))).To(BeTrue())
		})

		It("treats a plain number as dimensionless", func() {
			_, err := second.Add(quantity.Number(1))
			Expect(err).To(MatchError(units.ErrIncompatibleUnits))
		})
	})

	Describe("power", func() {
		It("multiplies exponents", func() {
			Expect(quantity.New(3, units.MustParse("m / s")).Pow(2)).To(HaveSymbol("m**2 / s**2"))
		})

		It("degrades at exponent zero", func() {
			Expect(quantity.New(3, units.Of("m")).Pow(0)).To(Equal(quantity.Number(1)))
		})

		It("rejects an exponent with a unit", func() {
			_, err := quantity.Pow(meter, second)
			Expect(err).To(MatchError(units.ErrNotDimensionless))
		})
	})

	Describe("comparison", func() {
		five := quantity.New(5, units.Of("s"))

		It("orders equal units", func() {
			lt, err := five.Lt(quantity.New(6, units.Of("s")))
			Expect(err).NotTo(HaveOccurred())
			Expect(lt).To(BeTrue())

			ge, err := five.Ge(quantity.New(5, units.Of("s")))
			Expect(err).NotTo(HaveOccurred())
			Expect(ge).To(BeTrue())
		})

		It("fails to order different units", func() {
			_, err := five.Gt(quantity.New(1, units.Of("m")))
			Expect(err).To(MatchError(units.ErrIncompatibleUnits))
		})

		It("resolves equality across units without failing", func() {
			Expect(five.Eq(quantity.New(5, units.Of("m")))).To(BeFalse())
			Expect(five.Ne(quantity.New(5, units.Of("m")))).To(BeTrue())
			Expect(five.Eq(quantity.Number(5))).To(BeFalse())
			Expect(five.Eq(quantity.New(5, units.Of("s")))).To(BeTrue())
		})
	})

	Describe("rescaling", func() {
		It("passes the value through for the same unit", func() {
			f, err := quantity.New(2.5, units.Of("m")).Rescale(units.Of("m"))
			Expect(err).NotTo(HaveOccurred())
			Expect(f).To(Equal(2.5))
		})

		It("expresses a value in a reference quantity", func() {
			ms := quantity.New(0.001, units.Of("s"))
			f, err := quantity.New(0.25, units.Of("s")).In(ms)
			Expect(err).NotTo(HaveOccurred())
			Expect(f).To(BeNumerically("~", 250, 1e-9))

			_, err = meter.In(ms)
			Expect(err).To(MatchError(units.ErrIncompatibleUnits))
		})
	})

	Describe("formatting", func() {
		It("renders value and unit", func() {
			Expect(quantity.New(9.81, units.MustParse("m / s**2")).String()).To(Equal("9.81 [m / s**2]"))
		})

		It("parses its own output", func() {
			v, err := quantity.ParseScalar("9.81 [m / s**2]")
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(HaveSymbol("m / s**2"))
			Expect(v.(quantity.Scalar).Value()).To(Equal(9.81))

			v, err = quantity.ParseScalar("4 []")
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(quantity.Number(4)))

			_, err = quantity.ParseScalar("4 [m / s / s]")
			Expect(err).To(MatchError(units.ErrParse))
		})
	})

	Describe("unary operations", func() {
		It("halves exponents under sqrt", func() {
			v := mustValue(quantity.Unary(ufunc.Sqrt, quantity.New(9, units.MustParse("m**2"))))
			Expect(v).To(HaveSymbol("m"))
			Expect(v.(quantity.Scalar).Value()).To(Equal(3.0))
		})

		It("requires dimensionless input for trig", func() {
			_, err := quantity.Unary(ufunc.Sin, meter)
			Expect(err).To(MatchError(units.ErrNotDimensionless))

			v := mustValue(quantity.Unary(ufunc.Cos, quantity.Number(0)))
			Expect(v).To(Equal(quantity.Number(1)))
		})
	})
})
