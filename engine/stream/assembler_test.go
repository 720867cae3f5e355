package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amstokely/xml-stream-parser/pkg/xmlnode"
)

const assemblerDoc = `<streams>
	<immutable_stream name="mesh" type="input" input_interval="initial_only"
		filename_template="init.nc" reference_time="2024-01-01_00:00:00"
		precision="single" io_type="pnetcdf,cdf5" clobber_mode="truncate"/>
	<stream name="history" type="output" output_interval="6h" record_interval="100"
		filename_template="out/history.$Y-$M-$D.nc" precision="double"
		io_type="netcdf4" clobber_mode="overwrite"/>
	<stream name="restart" type="input;output" input_interval="stream:mesh:input_interval"
		output_interval="stream:history:output_interval" filename_template="restart.$Y.nc"/>
	<stream name="broken" type="output" output_interval="stream:ghost:output_interval"/>
</streams>`

func TestLoad(t *testing.T) {
	catalog := mustCatalog(t, assemblerDoc)

	t.Run("Should resolve every field of an immutable stream", func(t *testing.T) {
		got := mustLoad(t, catalog, "mesh")
		assert.Equal(t, Resolved{
			StreamID:         "mesh",
			Direction:        DirectionInput,
			Immutable:        true,
			ReferenceTime:    "2024-01-01_00:00:00",
			RecordInterval:   "none",
			Precision:        PrecisionSingle,
			IOType:           IOTypePNetCDFCDF5,
			ClobberMode:      ClobberTruncate,
			FilenameTemplate: "init.nc",
			FilenameInterval: "none",
			InputInterval:    "initial_only",
		}, got)
	})

	t.Run("Should resolve a mutable output stream", func(t *testing.T) {
		got := mustLoad(t, catalog, "history")
		assert.False(t, got.Immutable)
		assert.Equal(t, DirectionOutput, got.Direction)
		assert.Equal(t, "6h", got.FilenameInterval)
		assert.Equal(t, "100", got.RecordInterval)
		assert.Equal(t, PrecisionDouble, got.Precision)
		assert.Equal(t, IOTypeNetCDF4, got.IOType)
		assert.Equal(t, ClobberOverwrite, got.ClobberMode)
		assert.Equal(t, "out/history.$Y-$M-$D.nc", got.FilenameTemplate)
	})

	t.Run("Should resolve references on both interval attributes", func(t *testing.T) {
		got := mustLoad(t, catalog, "restart")
		assert.Equal(t, DirectionInputOutput, got.Direction)
		assert.Equal(t, "initial_only", got.InputInterval)
		assert.Equal(t, "6h", got.OutputInterval)
		assert.Equal(t, "6h", got.FilenameInterval)
	})

	t.Run("Should apply defaults for absent attributes", func(t *testing.T) {
		got := mustLoad(t, catalog, "restart")
		assert.Equal(t, "initial_time", got.ReferenceTime)
		assert.Equal(t, "none", got.RecordInterval)
		assert.Equal(t, PrecisionNative, got.Precision)
		assert.Equal(t, IOTypePNetCDF, got.IOType)
		assert.Equal(t, ClobberNeverModify, got.ClobberMode)
	})

	t.Run("Should return equal results on repeated loads", func(t *testing.T) {
		record := mustRecord(t, catalog, "restart")
		first, err := Load(record, catalog)
		require.NoError(t, err)
		second, err := Load(record, catalog)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("Should propagate reference errors without substituting defaults", func(t *testing.T) {
		got, err := Load(mustRecord(t, catalog, "broken"), catalog)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrStreamNotFound)
		assert.Equal(t, Resolved{}, got)
		var streamErr *Error
		require.ErrorAs(t, err, &streamErr)
		assert.Equal(t, "broken", streamErr.StreamID)
		assert.Equal(t, AttrOutputInterval, streamErr.Attribute)
	})

	t.Run("Should reject a record without a name", func(t *testing.T) {
		_, err := Load(xmlnode.NewElement(TagStream, xmlnode.Attr{Key: AttrType, Value: "input"}), catalog)
		assert.ErrorIs(t, err, ErrMissingRequiredAttribute)
		var streamErr *Error
		require.ErrorAs(t, err, &streamErr)
		assert.Equal(t, AttrName, streamErr.Attribute)
	})

	t.Run("Should reject a record with an empty name", func(t *testing.T) {
		_, err := Load(xmlnode.NewElement(TagStream, xmlnode.Attr{Key: AttrName, Value: ""}), catalog)
		assert.Equal(t, CodeMissingRequiredAttribute, CodeOf(err))
	})

	t.Run("Should not mutate the record", func(t *testing.T) {
		record := mustRecord(t, catalog, "restart")
		before := record.Attributes()
		_ = mustLoad(t, catalog, "restart")
		assert.Equal(t, before, record.Attributes())
	})
}
