package model

import "os"

func exists(file string) bool {
	_, err := os.Stat(file)
	return err == nil
}
