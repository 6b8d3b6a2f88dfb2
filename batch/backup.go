/*
 * backup.go, part of somngo.
 *
 * Copyright 2024 The somngo Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	chem "github.com/rmera/somngo"
)

//BackupExt is the extension of the compressed MOL2 backups.
const BackupExt = ".mol2.zst"

//BackupName returns the backup file in dir for the input molecule mol. The name
//carries a key derived from the whole input structure (atoms, bonds, coordinates,
//charge and multiplicity), so different molecules with the same name never share a backup.
func BackupName(dir string, mol *chem.Molecule) (string, error) {
	key, err := inputKey(mol)
	if err != nil {
		return "", chem.ErrDecorate(err, "BackupName")
	}
	return filepath.Join(dir, safeName(mol.Name)+"-"+key+BackupExt), nil
}

//inputKey is a name-based (SHA1) UUID of the MOL2 text of mol plus its charge and unpaired electrons.
func inputKey(mol *chem.Molecule) (string, error) {
	text, err := chem.Mol2String(mol)
	if err != nil {
		return "", chem.ErrDecorate(err, "inputKey")
	}
	text += fmt.Sprintf("charge %d unpaired %d\n", mol.Charge(), mol.Unpaired())
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(text)).String(), nil
}

//safeName replaces the characters that can't appear in a file name.
func safeName(name string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", string(os.PathSeparator), "_")
	if name == "" {
		return "unnamed"
	}
	return r.Replace(name)
}

//WriteBackup writes mol, compressed with zstd, to the file name.
//The file is written in full or not at all, and concurrent writers of the same
//name don't interfere with each other.
func WriteBackup(name string, mol *chem.Molecule) error {
	f, err := os.CreateTemp(filepath.Dir(name), filepath.Base(name)+".*.tmp")
	if err != nil {
		return chem.WrapError(chem.ErrExternal, name, err, "WriteBackup")
	}
	tmp := f.Name()
	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		f.Close()
		os.Remove(tmp)
		return chem.WrapError(chem.ErrExternal, name, err, "WriteBackup")
	}
	if err := chem.Mol2Write(zw, mol, 0); err != nil {
		zw.Close()
		f.Close()
		os.Remove(tmp)
		return chem.ErrDecorate(err, "WriteBackup")
	}
	if err := zw.Close(); err != nil {
		f.Close()
		os.Remove(tmp)
		return chem.WrapError(chem.ErrExternal, name, err, "WriteBackup")
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return chem.WrapError(chem.ErrExternal, name, err, "WriteBackup")
	}
	if err := os.Rename(tmp, name); err != nil {
		os.Remove(tmp)
		return chem.WrapError(chem.ErrExternal, name, err, "WriteBackup")
	}
	return nil
}

//ReadBackup reads a molecule written by WriteBackup.
func ReadBackup(name string) (*chem.Molecule, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, chem.WrapError(chem.ErrMissingFile, name, err, "ReadBackup")
	}
	defer f.Close()
	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, chem.WrapError(chem.ErrParse, name, err, "ReadBackup")
	}
	defer zr.Close()
	mols, err := chem.Mol2Read(zr)
	if err != nil {
		return nil, chem.ErrDecorate(err, "ReadBackup")
	}
	if len(mols) != 1 {
		return nil, chem.NewError(chem.ErrParse, name, fmt.Sprintf("Backup holds %d molecules", len(mols)), "ReadBackup")
	}
	return mols[0], nil
}
