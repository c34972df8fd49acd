package yandexhome

// Every enumeration in this package is a string type. A code the library does not
// know about decodes to the same type carrying the raw wire string, and IsKnown
// reports false for it. Encoding always writes the raw string back unchanged.

// codeSet is the lookup table behind the IsKnown methods.
type codeSet[T ~string] map[T]struct{}

func newCodeSet[T ~string](codes ...T) codeSet[T] {
	set := make(codeSet[T], len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}
	return set
}

func (s codeSet[T]) has(code T) bool {
	_, ok := s[code]
	return ok
}

// DeviceType is the device category reported by the platform.
type DeviceType string

// Device type constants.
const (
	DeviceTypeSmartSpeaker       DeviceType = "devices.types.smart_speaker.yandex.station.micro"
	DeviceTypeLight              DeviceType = "devices.types.light"
	DeviceTypeSocket             DeviceType = "devices.types.socket"
	DeviceTypeSwitch             DeviceType = "devices.types.switch"
	DeviceTypeThermostat         DeviceType = "devices.types.thermostat"
	DeviceTypeThermostatAC       DeviceType = "devices.types.thermostat.ac"
	DeviceTypeMediaDevice        DeviceType = "devices.types.media_device"
	DeviceTypeMediaDeviceTV      DeviceType = "devices.types.media_device.tv"
	DeviceTypeMediaDeviceTVBox   DeviceType = "devices.types.media_device.tv_box"
	DeviceTypeMediaDeviceReceive DeviceType = "devices.types.media_device.receiver"
	DeviceTypeCooking            DeviceType = "devices.types.cooking"
	DeviceTypeCoffeeMaker        DeviceType = "devices.types.cooking.coffee_maker"
	DeviceTypeKettle             DeviceType = "devices.types.cooking.kettle"
	DeviceTypeMulticooker        DeviceType = "devices.types.cooking.multicooker"
	DeviceTypeOpenable           DeviceType = "devices.types.openable"
	DeviceTypeOpenableCurtain    DeviceType = "devices.types.openable.curtain"
	DeviceTypeHumidifier         DeviceType = "devices.types.humidifier"
	DeviceTypePurifier           DeviceType = "devices.types.purifier"
	DeviceTypeVacuumCleaner      DeviceType = "devices.types.vacuum_cleaner"
	DeviceTypeWashingMachine     DeviceType = "devices.types.washing_machine"
	DeviceTypeDishwasher         DeviceType = "devices.types.dishwasher"
	DeviceTypeIron               DeviceType = "devices.types.iron"
	DeviceTypeSensor             DeviceType = "devices.types.sensor"
	DeviceTypeSensorMotion       DeviceType = "devices.types.sensor.motion"
	DeviceTypeSensorDoor         DeviceType = "devices.types.sensor.door"
	DeviceTypeSensorWindow       DeviceType = "devices.types.sensor.window"
	DeviceTypeSensorWaterLeak    DeviceType = "devices.types.sensor.water_leak"
	DeviceTypeSensorSmoke        DeviceType = "devices.types.sensor.smoke"
	DeviceTypeSensorGas          DeviceType = "devices.types.sensor.gas"
	DeviceTypeSensorVibration    DeviceType = "devices.types.sensor.vibration"
	DeviceTypeSensorButton       DeviceType = "devices.types.sensor.button"
	DeviceTypeSensorIllumination DeviceType = "devices.types.sensor.illumination"
	DeviceTypeOther              DeviceType = "devices.types.other"
)

var knownDeviceTypes = newCodeSet(
	DeviceTypeSmartSpeaker, DeviceTypeLight, DeviceTypeSocket, DeviceTypeSwitch,
	DeviceTypeThermostat, DeviceTypeThermostatAC, DeviceTypeMediaDevice,
	DeviceTypeMediaDeviceTV, DeviceTypeMediaDeviceTVBox, DeviceTypeMediaDeviceReceive,
	DeviceTypeCooking, DeviceTypeCoffeeMaker, DeviceTypeKettle, DeviceTypeMulticooker,
	DeviceTypeOpenable, DeviceTypeOpenableCurtain, DeviceTypeHumidifier, DeviceTypePurifier,
	DeviceTypeVacuumCleaner, DeviceTypeWashingMachine, DeviceTypeDishwasher, DeviceTypeIron,
	DeviceTypeSensor, DeviceTypeSensorMotion, DeviceTypeSensorDoor, DeviceTypeSensorWindow,
	DeviceTypeSensorWaterLeak, DeviceTypeSensorSmoke, DeviceTypeSensorGas,
	DeviceTypeSensorVibration, DeviceTypeSensorButton, DeviceTypeSensorIllumination,
	DeviceTypeOther,
)

// IsKnown reports whether t is one of the declared device types.
func (t DeviceType) IsKnown() bool { return knownDeviceTypes.has(t) }

// DeviceState is the reachability of a device or group.
type DeviceState string

// Device state constants.
const (
	DeviceStateOnline   DeviceState = "online"
	DeviceStateOffline  DeviceState = "offline"
	DeviceStateNotFound DeviceState = "not_found"
	DeviceStateSplit    DeviceState = "split"
)

var knownDeviceStates = newCodeSet(DeviceStateOnline, DeviceStateOffline, DeviceStateNotFound, DeviceStateSplit)

// IsKnown reports whether s is one of the declared device states.
func (s DeviceState) IsKnown() bool { return knownDeviceStates.has(s) }

// CapabilityType identifies a capability kind.
type CapabilityType string

// Capability kinds.
const (
	CapabilityOnOff        CapabilityType = "devices.capabilities.on_off"
	CapabilityColorSetting CapabilityType = "devices.capabilities.color_setting"
	CapabilityRange        CapabilityType = "devices.capabilities.range"
	CapabilityMode         CapabilityType = "devices.capabilities.mode"
	CapabilityToggle       CapabilityType = "devices.capabilities.toggle"
	CapabilityVideoStream  CapabilityType = "devices.capabilities.video_stream"
)

// IsKnown reports whether t has an entry in the capability registry.
func (t CapabilityType) IsKnown() bool {
	_, ok := capabilityKinds[t]
	return ok
}

// PropertyType identifies a property kind.
type PropertyType string

// Property kinds.
const (
	PropertyFloat PropertyType = "devices.properties.float"
	PropertyEvent PropertyType = "devices.properties.event"
)

// IsKnown reports whether t has an entry in the property registry.
func (t PropertyType) IsKnown() bool {
	_, ok := propertyKinds[t]
	return ok
}

// Unit is a measurement unit of a range capability or float property.
type Unit string

// Unit constants.
const (
	UnitPercent            Unit = "unit.percent"
	UnitTemperatureCelsius Unit = "unit.temperature.celsius"
	UnitTemperatureKelvin  Unit = "unit.temperature.kelvin"
	UnitAmpere             Unit = "unit.ampere"
	UnitVolt               Unit = "unit.volt"
	UnitWatt               Unit = "unit.watt"
	UnitPPM                Unit = "unit.ppm"
	UnitLux                Unit = "unit.illumination.lux"
	UnitDensityMcgM3       Unit = "unit.density.mcg_m3"
	UnitPressureAtm        Unit = "unit.pressure.atm"
	UnitPressurePascal     Unit = "unit.pressure.pascal"
	UnitPressureBar        Unit = "unit.pressure.bar"
	UnitPressureMmHg       Unit = "unit.pressure.mmhg"
)

var knownUnits = newCodeSet(
	UnitPercent, UnitTemperatureCelsius, UnitTemperatureKelvin, UnitAmpere, UnitVolt,
	UnitWatt, UnitPPM, UnitLux, UnitDensityMcgM3, UnitPressureAtm, UnitPressurePascal,
	UnitPressureBar, UnitPressureMmHg,
)

// IsKnown reports whether u is one of the declared units.
func (u Unit) IsKnown() bool { return knownUnits.has(u) }

// OnOffInstance is the instance tag of an on_off state.
type OnOffInstance string

// InstanceOn is the only on_off instance.
const InstanceOn OnOffInstance = "on"

// IsKnown reports whether i is a declared on_off instance.
func (i OnOffInstance) IsKnown() bool { return i == InstanceOn }

// ColorModel is the color space a color_setting capability accepts.
type ColorModel string

// Color model constants.
const (
	ColorModelHSV ColorModel = "hsv"
	ColorModelRGB ColorModel = "rgb"
)

// IsKnown reports whether m is a declared color model.
func (m ColorModel) IsKnown() bool { return m == ColorModelHSV || m == ColorModelRGB }

// ColorInstance is the active representation of a color_setting state.
type ColorInstance string

// Color instance constants.
const (
	ColorInstanceHSV          ColorInstance = "hsv"
	ColorInstanceRGB          ColorInstance = "rgb"
	ColorInstanceTemperatureK ColorInstance = "temperature_k"
	ColorInstanceScene        ColorInstance = "scene"
)

var knownColorInstances = newCodeSet(ColorInstanceHSV, ColorInstanceRGB, ColorInstanceTemperatureK, ColorInstanceScene)

// IsKnown reports whether i is a declared color instance.
func (i ColorInstance) IsKnown() bool { return knownColorInstances.has(i) }

// ColorScene is a predefined lighting scene id.
type ColorScene string

// Color scene constants.
const (
	SceneAlarm   ColorScene = "alarm"
	SceneAlice   ColorScene = "alice"
	SceneCandle  ColorScene = "candle"
	SceneDinner  ColorScene = "dinner"
	SceneFantasy ColorScene = "fantasy"
	SceneGarland ColorScene = "garland"
	SceneJungle  ColorScene = "jungle"
	SceneMovie   ColorScene = "movie"
	SceneNeon    ColorScene = "neon"
	SceneNight   ColorScene = "night"
	SceneOcean   ColorScene = "ocean"
	SceneParty   ColorScene = "party"
	SceneReading ColorScene = "reading"
	SceneRest    ColorScene = "rest"
	SceneRomance ColorScene = "romance"
	SceneSiren   ColorScene = "siren"
	SceneSunrise ColorScene = "sunrise"
	SceneSunset  ColorScene = "sunset"
)

var knownColorScenes = newCodeSet(
	SceneAlarm, SceneAlice, SceneCandle, SceneDinner, SceneFantasy, SceneGarland, SceneJungle,
	SceneMovie, SceneNeon, SceneNight, SceneOcean, SceneParty, SceneReading, SceneRest,
	SceneRomance, SceneSiren, SceneSunrise, SceneSunset,
)

// IsKnown reports whether s is a declared scene id.
func (s ColorScene) IsKnown() bool { return knownColorScenes.has(s) }

// RangeInstance is the instance tag of a range capability.
type RangeInstance string

// Range instance constants.
const (
	RangeBrightness  RangeInstance = "brightness"
	RangeChannel     RangeInstance = "channel"
	RangeHumidity    RangeInstance = "humidity"
	RangeOpen        RangeInstance = "open"
	RangeTemperature RangeInstance = "temperature"
	RangeVolume      RangeInstance = "volume"
)

var knownRangeInstances = newCodeSet(RangeBrightness, RangeChannel, RangeHumidity, RangeOpen, RangeTemperature, RangeVolume)

// IsKnown reports whether i is a declared range instance.
func (i RangeInstance) IsKnown() bool { return knownRangeInstances.has(i) }

// ModeInstance is the instance tag of a mode capability.
type ModeInstance string

// Mode instance constants.
const (
	ModeCleanupMode ModeInstance = "cleanup_mode"
	ModeCoffeeMode  ModeInstance = "coffee_mode"
	ModeDishwashing ModeInstance = "dishwashing"
	ModeFanSpeed    ModeInstance = "fan_speed"
	ModeHeat        ModeInstance = "heat"
	ModeInputSource ModeInstance = "input_source"
	ModeProgram     ModeInstance = "program"
	ModeSwing       ModeInstance = "swing"
	ModeTeaMode     ModeInstance = "tea_mode"
	ModeThermostat  ModeInstance = "thermostat"
	ModeWorkSpeed   ModeInstance = "work_speed"
)

var knownModeInstances = newCodeSet(
	ModeCleanupMode, ModeCoffeeMode, ModeDishwashing, ModeFanSpeed, ModeHeat, ModeInputSource,
	ModeProgram, ModeSwing, ModeTeaMode, ModeThermostat, ModeWorkSpeed,
)

// IsKnown reports whether i is a declared mode instance.
func (i ModeInstance) IsKnown() bool { return knownModeInstances.has(i) }

// ModeValue is one selectable value of a mode capability.
type ModeValue string

// Mode value constants.
const (
	ModeValueAuto       ModeValue = "auto"
	ModeValueEco        ModeValue = "eco"
	ModeValueSmart      ModeValue = "smart"
	ModeValueTurbo      ModeValue = "turbo"
	ModeValueCool       ModeValue = "cool"
	ModeValueDry        ModeValue = "dry"
	ModeValueFanOnly    ModeValue = "fan_only"
	ModeValueHeat       ModeValue = "heat"
	ModeValuePreheat    ModeValue = "preheat"
	ModeValueHigh       ModeValue = "high"
	ModeValueLow        ModeValue = "low"
	ModeValueMedium     ModeValue = "medium"
	ModeValueMax        ModeValue = "max"
	ModeValueMin        ModeValue = "min"
	ModeValueFast       ModeValue = "fast"
	ModeValueSlow       ModeValue = "slow"
	ModeValueExpress    ModeValue = "express"
	ModeValueNormal     ModeValue = "normal"
	ModeValueQuiet      ModeValue = "quiet"
	ModeValueHorizontal ModeValue = "horizontal"
	ModeValueStationary ModeValue = "stationary"
	ModeValueVertical   ModeValue = "vertical"
	ModeValueOne        ModeValue = "one"
	ModeValueTwo        ModeValue = "two"
	ModeValueThree      ModeValue = "three"
	ModeValueFour       ModeValue = "four"
	ModeValueFive       ModeValue = "five"
	ModeValueSix        ModeValue = "six"
	ModeValueSeven      ModeValue = "seven"
	ModeValueEight      ModeValue = "eight"
	ModeValueNine       ModeValue = "nine"
	ModeValueTen        ModeValue = "ten"
	ModeValueAmericano  ModeValue = "americano"
	ModeValueCappuccino ModeValue = "cappuccino"
	ModeValueDoubleEsp  ModeValue = "double_espresso"
	ModeValueEspresso   ModeValue = "espresso"
	ModeValueLatte      ModeValue = "latte"
	ModeValueBlackTea   ModeValue = "black_tea"
	ModeValueGreenTea   ModeValue = "green_tea"
	ModeValueHerbalTea  ModeValue = "herbal_tea"
)

var knownModeValues = newCodeSet(
	ModeValueAuto, ModeValueEco, ModeValueSmart, ModeValueTurbo, ModeValueCool, ModeValueDry,
	ModeValueFanOnly, ModeValueHeat, ModeValuePreheat, ModeValueHigh, ModeValueLow,
	ModeValueMedium, ModeValueMax, ModeValueMin, ModeValueFast, ModeValueSlow, ModeValueExpress,
	ModeValueNormal, ModeValueQuiet, ModeValueHorizontal, ModeValueStationary, ModeValueVertical,
	ModeValueOne, ModeValueTwo, ModeValueThree, ModeValueFour, ModeValueFive, ModeValueSix,
	ModeValueSeven, ModeValueEight, ModeValueNine, ModeValueTen, ModeValueAmericano,
	ModeValueCappuccino, ModeValueDoubleEsp, ModeValueEspresso, ModeValueLatte,
	ModeValueBlackTea, ModeValueGreenTea, ModeValueHerbalTea,
)

// IsKnown reports whether v is a declared mode value.
func (v ModeValue) IsKnown() bool { return knownModeValues.has(v) }

// ToggleInstance is the instance tag of a toggle capability.
type ToggleInstance string

// Toggle instance constants.
const (
	ToggleBacklight      ToggleInstance = "backlight"
	ToggleControlsLocked ToggleInstance = "controls_locked"
	ToggleIonization     ToggleInstance = "ionization"
	ToggleKeepWarm       ToggleInstance = "keep_warm"
	ToggleMute           ToggleInstance = "mute"
	ToggleOscillation    ToggleInstance = "oscillation"
	TogglePause          ToggleInstance = "pause"
)

var knownToggleInstances = newCodeSet(
	ToggleBacklight, ToggleControlsLocked, ToggleIonization, ToggleKeepWarm, ToggleMute,
	ToggleOscillation, TogglePause,
)

// IsKnown reports whether i is a declared toggle instance.
func (i ToggleInstance) IsKnown() bool { return knownToggleInstances.has(i) }

// VideoStreamInstance is the instance tag of a video_stream state.
type VideoStreamInstance string

// InstanceGetStream is the only video_stream instance.
const InstanceGetStream VideoStreamInstance = "get_stream"

// IsKnown reports whether i is a declared video_stream instance.
func (i VideoStreamInstance) IsKnown() bool { return i == InstanceGetStream }

// StreamProtocol is a video streaming protocol.
type StreamProtocol string

// StreamProtocolHLS is HTTP live streaming.
const StreamProtocolHLS StreamProtocol = "hls"

// IsKnown reports whether p is a declared protocol.
func (p StreamProtocol) IsKnown() bool { return p == StreamProtocolHLS }

// FloatInstance is the instance tag of a float property.
type FloatInstance string

// Float property instances.
const (
	FloatAmperage     FloatInstance = "amperage"
	FloatBatteryLevel FloatInstance = "battery_level"
	FloatCO2Level     FloatInstance = "co2_level"
	FloatFoodLevel    FloatInstance = "food_level"
	FloatHumidity     FloatInstance = "humidity"
	FloatIllumination FloatInstance = "illumination"
	FloatPM1Density   FloatInstance = "pm1_density"
	FloatPM25Density  FloatInstance = "pm2.5_density"
	FloatPM10Density  FloatInstance = "pm10_density"
	FloatPower        FloatInstance = "power"
	FloatPressure     FloatInstance = "pressure"
	FloatTemperature  FloatInstance = "temperature"
	FloatTVOC         FloatInstance = "tvoc"
	FloatVoltage      FloatInstance = "voltage"
	FloatWaterLevel   FloatInstance = "water_level"
)

var knownFloatInstances = newCodeSet(
	FloatAmperage, FloatBatteryLevel, FloatCO2Level, FloatFoodLevel, FloatHumidity,
	FloatIllumination, FloatPM1Density, FloatPM25Density, FloatPM10Density, FloatPower,
	FloatPressure, FloatTemperature, FloatTVOC, FloatVoltage, FloatWaterLevel,
)

// IsKnown reports whether i is a declared float instance.
func (i FloatInstance) IsKnown() bool { return knownFloatInstances.has(i) }

// EventInstance is the instance tag of an event property.
type EventInstance string

// Event property instances.
const (
	EventVibration    EventInstance = "vibration"
	EventOpen         EventInstance = "open"
	EventButton       EventInstance = "button"
	EventMotion       EventInstance = "motion"
	EventSmoke        EventInstance = "smoke"
	EventGas          EventInstance = "gas"
	EventBatteryLevel EventInstance = "battery_level"
	EventFoodLevel    EventInstance = "food_level"
	EventWaterLevel   EventInstance = "water_level"
	EventWaterLeak    EventInstance = "water_leak"
)

// eventValues lists the values each event instance may report.
var eventValues = map[EventInstance]codeSet[EventValue]{
	EventVibration:    newCodeSet(EventValueTilt, EventValueFall, EventValueVibration),
	EventOpen:         newCodeSet(EventValueOpened, EventValueClosed),
	EventButton:       newCodeSet(EventValueClick, EventValueDoubleClick, EventValueLongPress),
	EventMotion:       newCodeSet(EventValueDetected, EventValueNotDetected),
	EventSmoke:        newCodeSet(EventValueDetected, EventValueNotDetected, EventValueHigh),
	EventGas:          newCodeSet(EventValueDetected, EventValueNotDetected, EventValueHigh),
	EventBatteryLevel: newCodeSet(EventValueLow, EventValueNormal),
	EventFoodLevel:    newCodeSet(EventValueEmpty, EventValueLow, EventValueNormal),
	EventWaterLevel:   newCodeSet(EventValueEmpty, EventValueLow, EventValueNormal),
	EventWaterLeak:    newCodeSet(EventValueDry, EventValueLeak),
}

// IsKnown reports whether i is a declared event instance.
func (i EventInstance) IsKnown() bool {
	_, ok := eventValues[i]
	return ok
}

// Accepts reports whether v is one of the values instance i can report.
func (i EventInstance) Accepts(v EventValue) bool {
	return eventValues[i].has(v)
}

// EventValue is a discrete event reported by an event property.
type EventValue string

// Event values.
const (
	EventValueTilt        EventValue = "tilt"
	EventValueFall        EventValue = "fall"
	EventValueVibration   EventValue = "vibration"
	EventValueOpened      EventValue = "opened"
	EventValueClosed      EventValue = "closed"
	EventValueClick       EventValue = "click"
	EventValueDoubleClick EventValue = "double_click"
	EventValueLongPress   EventValue = "long_press"
	EventValueDetected    EventValue = "detected"
	EventValueNotDetected EventValue = "not_detected"
	EventValueHigh        EventValue = "high"
	EventValueLow         EventValue = "low"
	EventValueNormal      EventValue = "normal"
	EventValueEmpty       EventValue = "empty"
	EventValueDry         EventValue = "dry"
	EventValueLeak        EventValue = "leak"
)

var knownEventValues = newCodeSet(
	EventValueTilt, EventValueFall, EventValueVibration, EventValueOpened, EventValueClosed,
	EventValueClick, EventValueDoubleClick, EventValueLongPress, EventValueDetected,
	EventValueNotDetected, EventValueHigh, EventValueLow, EventValueNormal, EventValueEmpty,
	EventValueDry, EventValueLeak,
)

// IsKnown reports whether v is a declared event value.
func (v EventValue) IsKnown() bool { return knownEventValues.has(v) }

// ActionStatus is the outcome of a single capability action.
type ActionStatus string

// Action status constants.
const (
	ActionStatusDone  ActionStatus = "DONE"
	ActionStatusError ActionStatus = "ERROR"
)

// ActionErrorCode is the platform error code attached to a failed action.
type ActionErrorCode string

// Action error codes.
const (
	ErrorCodeDeviceUnreachable      ActionErrorCode = "DEVICE_UNREACHABLE"
	ErrorCodeDeviceBusy             ActionErrorCode = "DEVICE_BUSY"
	ErrorCodeDeviceNotFound         ActionErrorCode = "DEVICE_NOT_FOUND"
	ErrorCodeInternalError          ActionErrorCode = "INTERNAL_ERROR"
	ErrorCodeInvalidAction          ActionErrorCode = "INVALID_ACTION"
	ErrorCodeInvalidValue           ActionErrorCode = "INVALID_VALUE"
	ErrorCodeNotSupportedInCurrMode ActionErrorCode = "NOT_SUPPORTED_IN_CURRENT_MODE"
)
