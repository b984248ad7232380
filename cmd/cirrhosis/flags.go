package main

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// bind makes the flag the value of key with the highest precedence, once the
// flag is set explicitly.
func bind(v *viper.Viper, fla *pflag.Flag, key string) {
	err := v.BindPFlag(key, fla)
	if err != nil {
		panic(err)
	}
}
