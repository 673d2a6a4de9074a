package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnakeCase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"EvseManager", "evse_manager"},
		{"OCPPConfig", "ocpp_config"},
		{"power-meter", "power_meter"},
		{"already_snake", "already_snake"},
		{"ISO15118Charger", "iso15118_charger"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SnakeCase(tt.in))
		})
	}
}

func TestCamelCase(t *testing.T) {
	assert.Equal(t, "EvseManager", CamelCase("evse_manager"))
	assert.Equal(t, "OCPPConfig", CamelCase("OCPP_config"))
	assert.Equal(t, "PowerMeter", CamelCase("power-meter"))
	assert.Equal(t, "", CamelCase(""))
}

func TestHeaderGuard(t *testing.T) {
	assert.Equal(t, "GENERATED_MODULE_EVSE_MANAGER_HPP", HeaderGuard("GENERATED", "MODULE", "EvseManager", "HPP"))
	assert.Equal(t, "GENERATED_INTERFACE_POWER_METER_REQ_HPP", HeaderGuard("GENERATED", "INTERFACE", "power_meter", "REQ", "HPP"))
}

func TestIsIdentifier(t *testing.T) {
	assert.True(t, IsIdentifier("evse"))
	assert.True(t, IsIdentifier("_private1"))
	assert.False(t, IsIdentifier("1st"))
	assert.False(t, IsIdentifier("with-dash"))
	assert.False(t, IsIdentifier(""))
	assert.False(t, IsIdentifier("has space"))
}
