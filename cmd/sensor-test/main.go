// Bring-up tool: probe the accelerometer, gyroscope and magnetometer
// on an i2c bus and stream samples.
package main

import (
	"flag"
	"time"

	"github.com/hollingerc/avrkit/hardware/i2c"
	"github.com/hollingerc/avrkit/hardware/sensor"
	"github.com/hollingerc/avrkit/log2"
)

func main() {
	flagBus := flag.Int("bus", 1, "i2c bus number")
	flagInterval := flag.Duration("interval", 500*time.Millisecond, "sample interval")
	flag.Parse()

	log := log2.NewStderr(log2.LDebug)
	log.SetFlags(log2.LInteractiveFlags)

	bus := i2c.NewBus(byte(*flagBus))
	if err := bus.Init(); err != nil {
		log.Fatal(err)
	}
	defer bus.Close()

	accel, err := sensor.NewADXL345(bus, 0, log)
	if err != nil {
		log.Errorf("adxl345: %v", err)
	} else {
		if err = accel.SetPowerControl(sensor.ADXLPowerMeasure); err != nil {
			log.Fatal(err)
		}
	}

	gyro, err := sensor.NewITG3205(bus, 0, log)
	if err != nil {
		log.Errorf("itg3205: %v", err)
	} else {
		if err = gyro.SetFilter(sensor.ITGFullScale2000 | sensor.ITGFilter42Hz); err != nil {
			log.Fatal(err)
		}
	}

	mag, err := sensor.NewHMC5883(bus, 0, log)
	if err != nil {
		log.Errorf("hmc5883: %v", err)
	} else {
		if err = mag.Init(sensor.HMCAverage8|sensor.HMCRate15, 0, sensor.HMCModeContinuous); err != nil {
			log.Fatal(err)
		}
	}

	if accel == nil && gyro == nil && mag == nil {
		log.Fatalf("no sensors found on bus=%d", *flagBus)
	}

	for {
		if accel != nil {
			if v, err := accel.Accel(); err == nil {
				log.Infof("accel %v", v)
			} else {
				log.Errorf("accel: %v", err)
			}
		}
		if gyro != nil {
			if v, err := gyro.Gyro(); err == nil {
				log.Infof("gyro %v", v)
			} else {
				log.Errorf("gyro: %v", err)
			}
		}
		if mag != nil {
			if v, err := mag.Mag(); err == nil {
				log.Infof("mag %v", v)
			} else {
				log.Errorf("mag: %v", err)
			}
		}
		time.Sleep(*flagInterval)
	}
}
