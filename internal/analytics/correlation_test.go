package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// productOrder builds a delivered row with full physical attributes.
func productOrder(id string, delay, weight, length, height, width float64) Order {
	return Order{
		OrderID:         id,
		CustomerState:   "SP",
		PurchaseTime:    time.Date(2018, 3, 5, 0, 0, 0, 0, time.UTC),
		DeliveryDelay:   Float(delay),
		DeliveryStatus:  StatusDelayed,
		ProductCategory: Str("misc"),
		ProductWeightG:  Float(weight),
		ProductLengthCM: Float(length),
		ProductHeightCM: Float(height),
		ProductWidthCM:  Float(width),
		Volume:          Float(length * height * width),
		WeightCategory:  "Light",
		OrderWeekday:    "Monday",
	}
}

func TestCorrelationMatrix(t *testing.T) {
	t.Run("symmetry and unit diagonal", func(t *testing.T) {
		rows := []Order{
			productOrder("1", 1, 100, 10, 5, 4),
			productOrder("2", 3, 250, 20, 8, 6),
			productOrder("3", 7, 900, 35, 12, 10),
			productOrder("4", 2, 150, 12, 6, 5),
		}
		table := NewTable(rows, AllColumns())

		m, err := ComputeCorrelationMatrix(table)
		require.NoError(t, err)
		require.Len(t, m.Features, 6)
		require.Len(t, m.Coefficients, 6)

		for i := 0; i < 6; i++ {
			require.True(t, m.Coefficients[i][i].Valid)
			assert.Equal(t, 1.0, m.Coefficients[i][i].Float64)
			for j := 0; j < 6; j++ {
				assert.Equal(t, m.Coefficients[i][j], m.Coefficients[j][i])
				if m.Coefficients[i][j].Valid {
					assert.GreaterOrEqual(t, m.Coefficients[i][j].Float64, -1.0)
					assert.LessOrEqual(t, m.Coefficients[i][j].Float64, 1.0)
				}
			}
		}
	})

	t.Run("perfectly correlated pair", func(t *testing.T) {
		rows := []Order{
			productOrder("1", 1, 100, 10, 5, 4),
			productOrder("2", 2, 200, 20, 8, 6),
			productOrder("3", 3, 300, 30, 12, 10),
		}
		table := NewTable(rows, AllColumns())

		m, err := ComputeCorrelationMatrix(table)
		require.NoError(t, err)

		// delay and weight move in lockstep above.
		cell := m.Coefficients[0][1]
		require.True(t, cell.Valid)
		assert.InDelta(t, 1.0, cell.Float64, 1e-9)
	})

	t.Run("pairwise complete observations", func(t *testing.T) {
		incomplete := productOrder("3", 3, 0, 30, 12, 10)
		incomplete.ProductWeightG = NullFloat64{} // weight missing, other fields present
		rows := []Order{
			productOrder("1", 1, 100, 10, 5, 4),
			productOrder("2", 2, 200, 20, 8, 6),
			incomplete,
		}
		table := NewTable(rows, AllColumns())

		m, err := ComputeCorrelationMatrix(table)
		require.NoError(t, err)

		// delay vs length uses all three rows despite the missing weight.
		cell := m.Coefficients[0][2]
		require.True(t, cell.Valid)
		assert.InDelta(t, 1.0, cell.Float64, 1e-9)

		// delay vs weight drops only the incomplete row.
		cell = m.Coefficients[0][1]
		require.True(t, cell.Valid)
		assert.InDelta(t, 1.0, cell.Float64, 1e-9)
	})

	t.Run("fewer than two joint observations is undefined", func(t *testing.T) {
		table := NewTable([]Order{productOrder("1", 1, 100, 10, 5, 4)}, AllColumns())

		m, err := ComputeCorrelationMatrix(table)
		require.NoError(t, err)
		for i := 0; i < 6; i++ {
			for j := 0; j < 6; j++ {
				assert.False(t, m.Coefficients[i][j].Valid)
			}
		}
	})

	t.Run("zero variance is undefined, not an error", func(t *testing.T) {
		rows := []Order{
			productOrder("1", 5, 100, 10, 5, 4),
			productOrder("2", 5, 200, 20, 8, 6),
			productOrder("3", 5, 300, 30, 12, 10),
		}
		table := NewTable(rows, AllColumns())

		m, err := ComputeCorrelationMatrix(table)
		require.NoError(t, err)

		// delay is constant: every pair involving it, diagonal included,
		// is undefined.
		for j := 0; j < 6; j++ {
			assert.False(t, m.Coefficients[0][j].Valid)
			assert.False(t, m.Coefficients[j][0].Valid)
		}
		// weight varies, so its diagonal stays defined.
		require.True(t, m.Coefficients[1][1].Valid)
		assert.Equal(t, 1.0, m.Coefficients[1][1].Float64)
	})
}

func TestPearson(t *testing.T) {
	t.Run("known value", func(t *testing.T) {
		x := []float64{1, 2, 3, 4, 5}
		y := []float64{2, 4, 6, 8, 10}
		assert.InDelta(t, 1.0, pearson(x, y), 1e-12)
	})

	t.Run("inverse relationship", func(t *testing.T) {
		x := []float64{1, 2, 3}
		y := []float64{3, 2, 1}
		assert.InDelta(t, -1.0, pearson(x, y), 1e-12)
	})

	t.Run("degenerate inputs are NaN", func(t *testing.T) {
		assert.True(t, math.IsNaN(pearson(nil, nil)))
		assert.True(t, math.IsNaN(pearson([]float64{1}, []float64{2})))
		assert.True(t, math.IsNaN(pearson([]float64{1, 1, 1}, []float64{1, 2, 3})))
	})
}
